// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package i18n holds the user-facing message catalog. English is the
// default; Simplified Chinese is the only other language.
package i18n

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a user-facing message.
type Key string

const (
	KeyInvalidFile     Key = "invalid_file"
	KeyFileTooLarge    Key = "file_too_large"
	KeyNoTextExtracted Key = "no_text_extracted"
	KeyExtractFailed   Key = "extract_failed"
	KeyProcessingError Key = "processing_error"
	KeyServiceOK       Key = "service_ok"
	KeyCheckFailed     Key = "check_failed"
	KeySolveFailed     Key = "solve_failed"
	KeyEmptyProblem    Key = "empty_problem"
	KeyProcessing      Key = "processing"
	KeyBackendHealthy  Key = "backend_healthy"
	KeyWorksheetSaved  Key = "worksheet_saved"
	KeyBatchSummary    Key = "batch_summary"
)

// Supported lists the catalog languages; the first is the fallback.
var Supported = []language.Tag{language.English, language.SimplifiedChinese}

var matcher = language.NewMatcher(Supported)

type entry struct{ en, zh string }

var messages = map[Key]entry{
	KeyInvalidFile:     {"Please select a valid image or video file", "请选择有效的图片或视频文件"},
	KeyFileTooLarge:    {"The file is larger than %s", "文件大小超过 %s"},
	KeyNoTextExtracted: {"No text could be extracted from the file. Please ensure the file contains clear, readable text.", "无法从文件中提取文本。请确保文件包含清晰可读的文本。"},
	KeyExtractFailed:   {"Failed to extract text from file. Please try again.", "无法从文件中提取文本。请重试。"},
	KeyProcessingError: {"An error occurred while processing the file.", "处理文件时发生错误。"},
	KeyServiceOK:       {"Local service running normally", "本地服务正常运行"},
	KeyCheckFailed:     {"Check failed: %s", "检查失败: %s"},
	KeySolveFailed:     {"An error occurred while solving the problem.", "解题时发生错误。"},
	KeyEmptyProblem:    {"Please enter a math problem", "请输入数学题"},
	KeyProcessing:      {"Processing...", "处理中..."},
	KeyBackendHealthy:  {"Backend %s is %s", "后端 %s 状态: %s"},
	KeyWorksheetSaved:  {"Worksheet saved to %s (%d pages)", "练习卷已保存到 %s (%d 页)"},
	KeyBatchSummary:    {"Solved %d, failed %d", "已解答 %d 题，失败 %d 题"},
}

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, m := range messages {
		if err := b.SetString(language.English, string(key), m.en); err != nil {
			panic(fmt.Sprintf("i18n: %s: %v", key, err))
		}
		if err := b.SetString(language.SimplifiedChinese, string(key), m.zh); err != nil {
			panic(fmt.Sprintf("i18n: %s: %v", key, err))
		}
	}
	return b
}

// Translator formats catalog messages for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// Match picks the supported language for a preference string such as
// "zh-CN" or an Accept-Language list. Unparseable or unsupported
// preferences fall back to English.
func Match(pref string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// New returns a Translator for the language best matching pref.
func New(pref string) *Translator {
	tag := Match(pref)
	return &Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Lang returns the base language code ("en" or "zh").
func (t *Translator) Lang() string {
	base, _ := t.tag.Base()
	return base.String()
}

// T formats the message for key with args.
func (t *Translator) T(key Key, args ...any) string {
	return t.printer.Sprintf(string(key), args...)
}

// Fprintln writes the message for key followed by a newline.
func (t *Translator) Fprintln(w io.Writer, key Key, args ...any) {
	fmt.Fprintln(w, t.T(key, args...))
}
