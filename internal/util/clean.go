package util

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var charReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201C", "\"", "\u201D", "\"",
	"\u2013", "-", "\u2014", "-", "\u2026", "...", "\u00a0", " ",
	"\u2009", " ", "\u202f", " ", "\u00ad", "",
)

// CleanFileContent strips a UTF-8 BOM and repairs invalid UTF-8 so that data
// files saved by editors on other platforms still decode.
func CleanFileContent(fileContentBytes []byte, src string) ([]byte, error) {
	fileContentBytes = bytes.TrimPrefix(fileContentBytes, utf8BOM)

	if !utf8.Valid(fileContentBytes) {
		log.Warnf("%s has invalid UTF-8, replacing invalid chars", src)
		fileContentBytes = bytes.ToValidUTF8(fileContentBytes, []byte(string(utf8.RuneError)))
	}

	if !utf8.Valid(fileContentBytes) {
		return nil, fmt.Errorf("invalid UTF-8 after replacements: %s", src)
	}
	return fileContentBytes, nil
}

// ReplaceTypographic maps curly quotes, long dashes and non-breaking spaces
// pasted into queries to their plain ASCII forms.
func ReplaceTypographic(s string) string {
	return charReplacer.Replace(s)
}
