package validate

import (
	"regexp"
	"strings"
)

var (
	exportLetRe    = regexp.MustCompile(`export\s+let\s+`)
	effectCallRe   = regexp.MustCompile(`\$effect\s*\(`)
	effectBodyRe   = regexp.MustCompile(`\$effect\s*\(\s*\(\)\s*=>\s*\{[\s\S]*?\}\s*\)`)
	keyedEachRe    = regexp.MustCompile(`\{#each\s+\w+\s+as\s+\w+\s*,?\s*\w*\s*\([^)]+\)`)
	bindableRe     = regexp.MustCompile(`checked\s*[=:]\s*\$bindable`)
	stateCheckedRe = regexp.MustCompile(`let\s+checked\s*=\s*\$state`)
)

const noExportLet = "Component must NOT use 'export let' - use $props() instead"

// timerCleanup passes when the first $effect either is absent or returns a
// cleanup that calls clearInterval.
func timerCleanup(code string) bool {
	body := effectBodyRe.FindString(code)
	if body == "" {
		return true
	}
	return strings.Contains(body, "return") && strings.Contains(body, "clearInterval")
}

// bindableChecked fails when checked is a separate $state rather than a
// $bindable prop.
func bindableChecked(code string) bool {
	return !(stateCheckedRe.MatchString(code) && !bindableRe.MatchString(code))
}

var registry = map[string]Validator{
	"accordion": {
		Description: "accordion follows Svelte 5 best practices",
		Rules: []Rule{
			Require("aria-expanded", "Component must have aria-expanded attributes for accessibility"),
			Forbid("$effect", "Component should NOT use $effect for UI state management"),
			Forbid("export let", noExportLet),
		},
	},
	"button-variants": {
		Description: "button uses Svelte 5 patterns",
		Rules: []Rule{
			Require("$props", "Component must use the $props rune to accept component properties"),
			ForbidPattern(exportLetRe, noExportLet),
			Forbid("createEventDispatcher", "Component must NOT use createEventDispatcher - forward events directly instead"),
		},
	},
	"counter": {
		Description: "counter uses the $state rune",
		Rules: []Rule{
			Require("$state", "Component must use the $state rune for reactivity"),
		},
	},
	"counter-bounds": {
		Description: "counter bounds use $derived, not $effect",
		Rules: []Rule{
			Require("$derived", "Component must use the $derived rune for atMin/atMax/count bounds checking"),
			ForbidPattern(effectCallRe, "Component should NOT use $effect for bounds checking - use $derived instead"),
			Forbid("export let", "Component should NOT use legacy 'export let' syntax - use $props() instead"),
		},
	},
	"derived": {
		Description: "number doubler uses plain $derived",
		Rules: []Rule{
			Require("$derived", "Component must use the $derived rune"),
			Forbid("$derived.by", "Component should use simple $derived, not $derived.by (this test is for basic derivations)"),
		},
	},
	"derived-by": {
		Description: "text analyzer uses $derived.by",
		Rules: []Rule{
			Require("$derived.by", "Component must use the $derived.by rune for complex derivations"),
		},
	},
	"each": {
		Description: "character list uses an {#each} block",
		Rules: []Rule{
			Require("{#each", "Component must use the {#each} block for iteration"),
		},
	},
	"form-wizard": {
		Description: "form wizard follows Svelte 5 best practices",
		Rules: []Rule{
			Require("$state", "Component must use $state() for current_step and form_data"),
			Require("$derived", "Component must use $derived() for is_first_step, is_last_step calculations"),
			Forbid("$effect", "Component must NOT use $effect for step management - use $derived instead"),
			Forbid("export let", noExportLet),
		},
	},
	"inspect": {
		Description: "component uses every $inspect form",
		Rules: []Rule{
			Require("$inspect", "Component must use the $inspect rune"),
			Require(".with", "Component must use $inspect(...).with for custom callbacks"),
			Require("$inspect.trace", "Component must use $inspect.trace() inside an effect"),
		},
	},
	"password-strength": {
		Description: "password strength follows Svelte 5 best practices",
		Rules: []Rule{
			Require("$state", "Component must use $state() for password and show_password variables"),
			Require("$derived", "Component must use $derived() for all criteria and strength calculation"),
			Forbid("$effect", "Component must NOT use $effect for computing strength - use $derived instead"),
			Forbid("export let", "Component must NOT use 'export let' - this is Svelte 4 syntax"),
		},
	},
	"props": {
		Description: "component uses the $props rune",
		Rules: []Rule{
			Require("$props", "Component must use the $props rune to accept component properties"),
		},
	},
	"search-filter": {
		Description: "search filter uses proper Svelte 5 patterns",
		Rules: []Rule{
			Require("$state", "Component must use $state() for the search term"),
			Require("$derived", "Component must use $derived() for filtered items and result count"),
			Require("@render", "Component must use @render for rendering children"),
			Forbid("$effect", "Component must NOT use $effect for filtering - use $derived instead"),
			Forbid("export let", noExportLet),
		},
	},
	"snippets": {
		Description: "book list uses snippets",
		Rules: []Rule{
			Require("{#snippet", "Component must define snippets using {#snippet}"),
			Require("{@render", "Component must render snippets using {@render}"),
		},
	},
	"tabs": {
		Description: "tabs follow Svelte 5 best practices",
		Rules: []Rule{
			Require("$state", "Component must use $state() for managing activeIndex"),
			Forbid("$effect", "Component must NOT use '$effect'"),
			Forbid("export let", noExportLet),
		},
	},
	"tag-input": {
		Description: "tag input follows Svelte 5 best practices",
		Rules: []Rule{
			Require("$state", "Component must use $state() for the tags array"),
			Require("$derived", "Component must use $derived() for the canAddMore computed value"),
			RequirePattern(keyedEachRe, "Component must use {#each tags as tag (key)} with a unique key for proper list rendering"),
			Forbid("export let", noExportLet),
		},
	},
	"temperature-converter": {
		Description: "temperature converter keeps one $state source of truth",
		Rules: []Rule{
			Require("$state", "Component must use $state() for the source of truth temperature value"),
			Require("$derived", "Component must use $derived() for the other temperature scales"),
			Forbid("$effect", "Component should NOT use $effect for temperature conversions. Use $derived() instead for reactive calculations."),
			ForbidPattern(exportLetRe, "Component should NOT use 'export let' (Svelte 4 pattern). Use $props() for Svelte 5 if props are needed."),
		},
	},
	"timer": {
		Description: "timer manages its interval in an $effect with cleanup",
		Rules: []Rule{
			Require("$state", "Component must use $state() for elapsed time and running state"),
			Require("$derived", "Component must use $derived() for formatted time display"),
			Require("$effect", "Component must use $effect() for managing setInterval"),
			Check(timerCleanup, "$effect must return a cleanup function that calls clearInterval"),
			Forbid("export let", "Component must NOT use 'export let' - use Svelte 5 syntax instead"),
		},
	},
	"todo-list": {
		Description: "todo list follows Svelte 5 best practices",
		Rules: []Rule{
			Require("$state", "Component must use $state() for the todos array"),
			Require("$derived", "Component must use $derived() for the remaining count"),
			Forbid("$effect", "Component must NOT use $effect for count calculation - use $derived instead"),
			Forbid("export let", noExportLet),
		},
	},
	"toggle": {
		Description: "toggle is an accessible switch with a bindable prop",
		Rules: []Rule{
			Require("$props", "Component must use $props() for props declaration"),
			Require("$bindable", "Component must use $bindable() for the checked prop"),
			RequireAny(`Component must have role="switch" on the toggle element`, `role="switch"`, `role='switch'`),
			Require("aria-checked", "Component must have aria-checked attribute"),
			Check(bindableChecked, "Component must NOT use separate $state for checked when using $bindable - use $bindable() directly in $props()"),
			Forbid("export let", noExportLet),
		},
	},
}

func init() {
	for name, v := range registry {
		v.Scenario = name
		registry[name] = v
	}
}
