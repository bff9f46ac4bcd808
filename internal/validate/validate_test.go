package validate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func mustLookup(t *testing.T, name string) Validator {
	t.Helper()
	v, ok := Lookup(name)
	if !ok {
		t.Fatalf("no validator for %q", name)
	}
	return v
}

func TestCounter(t *testing.T) {
	v := mustLookup(t, "counter")

	r := v.Validate(`<script>let count = $state(0);</script><button onclick={() => count++}>{count}</button>`)
	if !r.Valid || r.Errors == nil || len(r.Errors) != 0 {
		t.Errorf("got %+v, want valid with empty errors", r)
	}

	r = v.Validate(`<script>let count = 0;</script>`)
	if r.Valid {
		t.Error("expected invalid")
	}
	want := []string{"Component must use the $state rune for reactivity"}
	if !reflect.DeepEqual(r.Errors, want) {
		t.Errorf("errors = %q, want %q", r.Errors, want)
	}
}

func TestErrorsFollowRuleOrder(t *testing.T) {
	v := mustLookup(t, "form-wizard")
	r := v.Validate(`<script>export let step; $effect(() => {});</script>`)
	want := []string{
		"Component must use $state() for current_step and form_data",
		"Component must use $derived() for is_first_step, is_last_step calculations",
		"Component must NOT use $effect for step management - use $derived instead",
		"Component must NOT use 'export let' - use $props() instead",
	}
	if !reflect.DeepEqual(r.Errors, want) {
		t.Errorf("errors = %q\nwant %q", r.Errors, want)
	}
}

func TestTimerCleanup(t *testing.T) {
	v := mustLookup(t, "timer")
	const msg = "$effect must return a cleanup function that calls clearInterval"

	tests := []struct {
		name    string
		code    string
		wantMsg bool
	}{
		{
			name: "cleanup present",
			code: `let s = $state(0); let f = $derived(s);
$effect(() => { const id = setInterval(tick, 1000); return () => clearInterval(id) })`,
		},
		{
			name: "no return",
			code: `let s = $state(0); let f = $derived(s);
$effect(() => { setInterval(tick, 1000) })`,
			wantMsg: true,
		},
		{
			name: "effect not in arrow form",
			code: `let s = $state(0); let f = $derived(s); $effect(run);`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := v.Validate(tt.code)
			got := false
			for _, e := range r.Errors {
				if e == msg {
					got = true
				}
			}
			if got != tt.wantMsg {
				t.Errorf("cleanup error = %v, want %v (errors %q)", got, tt.wantMsg, r.Errors)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	v := mustLookup(t, "toggle")

	good := `<script>let { checked = $bindable(false) } = $props();</script>
<button role='switch' aria-checked={checked} onclick={() => (checked = !checked)}></button>`
	if r := v.Validate(good); !r.Valid {
		t.Errorf("good toggle invalid: %q", r.Errors)
	}

	separate := `<script>let props = $props(); let x = $bindable(); let checked = $state(false);</script>
<button role="switch" aria-checked={checked}></button>`
	r := v.Validate(separate)
	want := []string{"Component must NOT use separate $state for checked when using $bindable - use $bindable() directly in $props()"}
	if !reflect.DeepEqual(r.Errors, want) {
		t.Errorf("errors = %q, want %q", r.Errors, want)
	}

	r = v.Validate(`$props $bindable aria-checked`)
	want = []string{`Component must have role="switch" on the toggle element`}
	if !reflect.DeepEqual(r.Errors, want) {
		t.Errorf("errors = %q, want %q", r.Errors, want)
	}
}

func TestTagInputKeyedEach(t *testing.T) {
	v := mustLookup(t, "tag-input")
	base := `let tags = $state([]); let canAddMore = $derived(tags.length < 5);`

	if r := v.Validate(base + `{#each tags as tag (tag)}<span>{tag}</span>{/each}`); !r.Valid {
		t.Errorf("keyed each rejected: %q", r.Errors)
	}
	if r := v.Validate(base + `{#each tags as tag, i (tag.id)}{/each}`); !r.Valid {
		t.Errorf("keyed each with index rejected: %q", r.Errors)
	}
	if r := v.Validate(base + `{#each tags as tag}{/each}`); r.Valid {
		t.Error("unkeyed each accepted")
	}
}

func TestDerivedRejectsDerivedBy(t *testing.T) {
	v := mustLookup(t, "derived")
	r := v.Validate(`let d = $derived.by(() => n * 2);`)
	if r.Valid || len(r.Errors) != 1 || !strings.Contains(r.Errors[0], "$derived.by") {
		t.Errorf("got %+v", r)
	}
}

func TestExportLetPattern(t *testing.T) {
	v := mustLookup(t, "button-variants")
	r := v.Validate("let p = $props();\nexport   let variant;")
	if r.Valid {
		t.Error("export let with extra whitespace accepted")
	}
}

func TestScenarios(t *testing.T) {
	names := Scenarios()
	if len(names) != 19 {
		t.Fatalf("got %d scenarios: %v", len(names), names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("not sorted: %v", names)
		}
	}
	for _, n := range names {
		v := mustLookup(t, n)
		if v.Scenario != n {
			t.Errorf("validator %q has Scenario %q", n, v.Scenario)
		}
		if len(v.Rules) == 0 {
			t.Errorf("validator %q has no rules", n)
		}
	}
	if _, ok := Lookup("hello-world"); ok {
		t.Error("hello-world should have no validator")
	}
}

var fragments = []string{"$state", "$derived", "$derived.by", "$effect", "export let", "{#each", "$props", "$bindable", "role=\"switch\""}

func TestProperty_Validate(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("valid iff no errors, and errors never nil", prop.ForAll(
		func(code string) bool {
			for _, n := range Scenarios() {
				v, _ := Lookup(n)
				r := v.Validate(code)
				if r.Errors == nil || r.Valid != (len(r.Errors) == 0) {
					return false
				}
			}
			return true
		},
		gen.OneGenOf(
			gen.AnyString(),
			gen.SliceOf(gen.IntRange(0, len(fragments)-1)).Map(func(idx []int) string {
				parts := make([]string, len(idx))
				for i, j := range idx {
					parts[i] = fragments[j]
				}
				return strings.Join(parts, " ")
			}),
		),
	))

	properties.Property("counter accepts any source containing $state", prop.ForAll(
		func(prefix, suffix string) bool {
			v, _ := Lookup("counter")
			return v.Validate(prefix + "$state" + suffix).Valid
		},
		gen.AnyString(), gen.AnyString(),
	))

	properties.TestingRun(t)
}
