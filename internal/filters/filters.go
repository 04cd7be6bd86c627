// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/starctl/internal/attrs"
	"github.com/staranto/starctl/internal/driller"
)

// filterRegex splits an expression into key, operand and target. Operands
// are one of = ^ ~ < > @ /, optionally negated with a leading !.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

func (f Filter) String() string {
	neg := ""
	if f.Negate {
		neg = "!"
	}
	return f.Key + neg + f.Operand + f.Target
}

// Delimiter separates expressions in a --filter spec. STARCTL_FILTER_DELIM
// overrides the default "," for targets that contain commas.
func Delimiter() string {
	if d, ok := os.LookupEnv("STARCTL_FILTER_DELIM"); ok && d != "" {
		return d
	}
	return ","
}

// BuildFilters parses a filter spec. Malformed expressions are logged and
// skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	for _, expr := range strings.Split(spec, Delimiter()) {
		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil || strings.TrimSpace(parts[1]) == "" {
			log.Error("invalid filter: " + expr)
			continue
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")

		filters = append(filters, Filter{
			Key:     strings.TrimSpace(parts[1]),
			Negate:  negate,
			Operand: strings.TrimPrefix(operand, "!"),
			Target:  parts[3],
		})
	}

	return filters
}

// FilterDataset keeps the records of candidates, a JSON array, that pass
// every filter in spec and projects each onto attrs. Values are not
// transformed here.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var results []map[string]interface{}

	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, attrs, filters) {
			continue
		}

		row := make(map[string]interface{}, len(attrs))
		for _, attr := range attrs {
			if attr.Key == "*" {
				continue
			}
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		results = append(results, row)
	}

	return results
}

// resolveKey maps a filter key to a record path. Output keys from --attrs
// win; anything else is taken as a path into the record, so a repository
// can be filtered on attributes that are not displayed.
func resolveKey(key string, attrs attrs.AttrList) string {
	for _, attr := range attrs {
		if attr.OutputKey == key {
			return attr.Key
		}
	}
	return strings.TrimPrefix(key, ".")
}

// applyFilters reports whether candidate passes all filters. A missing or
// null value fails the filter.
func applyFilters(candidate gjson.Result, attrs attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		value := driller.Driller(candidate.Raw, resolveKey(filter.Key, attrs)).Value()
		if value == nil {
			log.WithField("filter", filter.String()).Debug("no value for filter key")
			return false
		}

		var ok bool
		switch v := value.(type) {
		case string:
			ok = checkStringOperand(v, filter)
		case bool:
			ok = checkStringOperand(strconv.FormatBool(v), filter)
		case float64:
			ok = checkNumericOperand(v, filter)
		default:
			ok = checkContainsOperand(value, filter)
		}

		if !ok {
			return false
		}
	}

	return true
}

// checkContainsOperand tests membership ('@') in arrays and objects. Other
// operands never match a composite value.
func checkContainsOperand(value interface{}, filter Filter) bool {
	if filter.Operand != "@" {
		log.Error(fmt.Sprintf("operand %s not supported for %T", filter.Operand, value))
		return false
	}

	var found bool
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if fmt.Sprint(item) == filter.Target {
				found = true
				break
			}
		}
	case map[string]any:
		_, found = val[filter.Target]
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %T", value))
		return false
	}
	return found != filter.Negate
}

// checkNumericOperand compares numerically with =, > and <. '@' and the
// string operands fall back to comparing the formatted number.
func checkNumericOperand(value float64, filter Filter) bool {
	switch filter.Operand {
	case "=", ">", "<":
	default:
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}

	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + filter.Target)
		return false
	}

	var result bool
	switch filter.Operand {
	case "=":
		result = value == tgt
	case ">":
		result = value > tgt
	case "<":
		result = value < tgt
	}
	return result != filter.Negate
}

// checkStringOperand evaluates a string comparison.
func checkStringOperand(value string, filter Filter) bool {
	var result bool
	switch filter.Operand {
	case "=":
		result = value == filter.Target
	case "~":
		result = strings.EqualFold(value, filter.Target)
	case "^":
		result = strings.HasPrefix(value, filter.Target)
	case ">":
		result = value > filter.Target
	case "<":
		result = value < filter.Target
	case "@":
		result = strings.Contains(value, filter.Target)
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		result = matched
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
	return result != filter.Negate
}
