package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/colortour/hotspot-editor/internal/util"
)

// ErrMissingArgument is returned when a required positional argument is absent.
var ErrMissingArgument = errors.New("missing argument")

// Parser provides pure []string -> core struct conversion for console
// commands. It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseID returns the first argument, unquoted.
func (p *Parser) ParseID(data []string) (string, error) {
	return positional(data, 0, "id")
}

func positional(data []string, i int, name string) (string, error) {
	if len(data) <= i {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	v := util.Unquote(strings.TrimSpace(data[i]))
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	return v, nil
}

// pairs splits key=value arguments. Arguments without '=' are reported and
// skipped.
func (p *Parser) pairs(data []string) map[string]string {
	out := make(map[string]string, len(data))
	for _, arg := range data {
		k, v, ok := util.KeyValue(arg)
		if !ok || k == "" {
			p.logger.Warn("Ignoring argument without key", "arg", arg)
			continue
		}
		out[strings.ToLower(k)] = v
	}
	return out
}

func parseFloat(key, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", key, err)
	}
	return f, nil
}

// positionValue turns a console position into a value for the normalizer.
// JSON objects and arrays are decoded; anything else stays a string.
func positionValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if s[0] == '{' || s[0] == '[' {
		dec := json.NewDecoder(bytes.NewReader([]byte(s)))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err == nil {
			return v
		}
	}
	return s
}
