package utils

import (
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const SplitChars string = "/,;"

var whitespace = regexp.MustCompile(`([\s])+`)

func AddError(m fiber.Map, k string, v string) fiber.Map {
	if _, ok := m[k]; !ok {
		m[k] = []string{v}
	} else {
		m[k] = append(m[k].([]string), v)
	}

	return m
}

func ToStringPtr(s string) *string {
	s = strings.TrimSpace(s)

	if len(s) < 1 {
		return nil
	}

	return &s
}

// IsTruthy accepts the usual spellings of a true flag in query strings.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func IsValidEmail(e string) bool {
	if len(e) < 1 {
		return false
	}

	if _, err := mail.ParseAddress(e); err != nil {
		slog.Error(fmt.Sprintf("Could not parse email: %v", err))
		return false
	}

	return true
}

// https://stackoverflow.com/a/54426140
func SplitAny(s string, seps string) []string {
	s = strings.TrimSpace(s)

	splitter := func(r rune) bool {
		return strings.ContainsRune(seps, r)
	}

	return strings.FieldsFunc(s, splitter)
}

func CleanString(s string) string {
	c := strings.TrimSpace(s)

	if len(c) < 1 {
		return c
	}

	return whitespace.ReplaceAllString(c, `$1`)
}

func RemoveDuplicated[T comparable](sliceList []T) []T {
	allKeys := make(map[T]bool, len(sliceList))
	list := make([]T, 0)

	for _, item := range sliceList {
		if _, value := allKeys[item]; !value {
			allKeys[item] = true
			list = append(list, item)
		}
	}

	return list
}

func CleanStringList(s []string) []string {
	if len(s) < 1 {
		return []string{}
	}

	for k, v := range s {
		s[k] = CleanString(v)
	}

	s = RemoveDuplicated(s)

	return slices.DeleteFunc(s, func(e string) bool {
		return len(e) < 1
	})
}
