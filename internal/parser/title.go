package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/pactum/internal/models"
	"github.com/starford/pactum/internal/textnorm"
)

// contractKeywordRe finds a line naming the kind of document. The keyword
// only selects the title line; the reported type is always
// models.DefaultContractType.
var contractKeywordRe = regexp.MustCompile(`(?i)(AGREEMENT|CONTRACT|NDA|AMENDMENT|STATEMENT OF WORK|LICENSE|LEASE)`)

var filenameSeparators = strings.NewReplacer("_", " ", "-", " ")

// guessTitle picks the title line from the first page, falling back to a
// title derived from filename.
func guessTitle(pages []string, filename string) (title, contractType string) {
	if len(pages) > 0 {
		for _, line := range textnorm.SplitLines(pages[0]) {
			if contractKeywordRe.MatchString(line) {
				return textnorm.NormalizeWhitespace(line), models.DefaultContractType
			}
		}
	}
	return TitleFromFilename(filename), models.DefaultContractType
}

// TitleFromFilename turns "master_services-agreement.pdf" into
// "Master Services Agreement".
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return titleCase(filenameSeparators.Replace(stem))
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
