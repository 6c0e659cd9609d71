package base

import (
	"strconv"
	"strings"
)

func replacePlaceholder(cond string, n int) string {
	return strings.Replace(cond, "?", "$"+strconv.Itoa(n), 1)
}
