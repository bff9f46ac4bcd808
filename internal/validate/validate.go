// Package validate runs the static source checks of each eval scenario
// against a generated component.
package validate

import (
	"regexp"
	"sort"
	"strings"
)

// Result is the outcome of one validation. Errors is never nil.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Rule is one check. It reports a violation when failed returns true.
type Rule struct {
	failed  func(code string) bool
	Message string
}

func Require(substr, msg string) Rule {
	return Rule{failed: func(code string) bool { return !strings.Contains(code, substr) }, Message: msg}
}

func Forbid(substr, msg string) Rule {
	return Rule{failed: func(code string) bool { return strings.Contains(code, substr) }, Message: msg}
}

// RequireAny passes when at least one of substrs is present.
func RequireAny(msg string, substrs ...string) Rule {
	return Rule{failed: func(code string) bool {
		for _, s := range substrs {
			if strings.Contains(code, s) {
				return false
			}
		}
		return true
	}, Message: msg}
}

func RequirePattern(re *regexp.Regexp, msg string) Rule {
	return Rule{failed: func(code string) bool { return !re.MatchString(code) }, Message: msg}
}

func ForbidPattern(re *regexp.Regexp, msg string) Rule {
	return Rule{failed: func(code string) bool { return re.MatchString(code) }, Message: msg}
}

// Check wraps a compound condition; ok returns true when the code passes.
func Check(ok func(code string) bool, msg string) Rule {
	return Rule{failed: func(code string) bool { return !ok(code) }, Message: msg}
}

type Validator struct {
	Scenario    string
	Description string
	Rules       []Rule
}

// Validate applies every rule in order and collects one message per failure.
func (v Validator) Validate(code string) Result {
	errs := []string{}
	for _, r := range v.Rules {
		if r.failed(code) {
			errs = append(errs, r.Message)
		}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Lookup returns the validator registered for scenario.
func Lookup(scenario string) (Validator, bool) {
	v, ok := registry[scenario]
	return v, ok
}

// Scenarios returns the names of all scenarios with a validator, sorted.
func Scenarios() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
