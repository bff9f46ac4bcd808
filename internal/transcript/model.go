package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type EventType string

const (
	TypeStepStart  EventType = "step_start"
	TypeStepFinish EventType = "step_finish"
	TypeText       EventType = "text"
	TypeToolUse    EventType = "tool_use"
)

// Event is one record of an agent run log. Every field except Type is
// optional; unknown types are kept and ignored downstream.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Part      *Part     `json:"part,omitempty"`

	// Line is the 1-based line of the record in its source file.
	Line int `json:"-"`
}

type Part struct {
	ID        string     `json:"id,omitempty"`
	MessageID string     `json:"messageID,omitempty"`
	Text      string     `json:"text,omitempty"`
	Tool      string     `json:"tool,omitempty"`
	State     *ToolState `json:"state,omitempty"`
	Cost      *float64   `json:"cost,omitempty"`
	Tokens    *Tokens    `json:"tokens,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

type ToolState struct {
	Input  Input           `json:"input,omitempty"`
	Output json.RawMessage `json:"output,omitempty"`
	Status string          `json:"status,omitempty"`
}

type Tokens struct {
	Input  *float64 `json:"input,omitempty"`
	Output *float64 `json:"output,omitempty"`
}

// UnmarshalJSON decodes an event leniently: a member of the wrong type is
// left at its zero value instead of failing the whole record.
func (e *Event) UnmarshalJSON(data []byte) error {
	*e = Event{}
	var m map[string]json.RawMessage
	if json.Unmarshal(data, &m) != nil {
		// valid JSON that is not an object carries no event
		return nil
	}
	e.Type = EventType(rawString(m["type"]))
	if f, ok := rawNumber(m["timestamp"]); ok {
		e.Timestamp = int64(f)
	}
	if p, ok := m["part"]; ok && !IsNull(p) {
		var part Part
		if json.Unmarshal(p, &part) == nil {
			e.Part = &part
		}
	}
	return nil
}

func (p *Part) UnmarshalJSON(data []byte) error {
	*p = Part{}
	var m map[string]json.RawMessage
	if json.Unmarshal(data, &m) != nil {
		return nil
	}
	p.ID = rawString(m["id"])
	p.MessageID = rawString(m["messageID"])
	p.Text = rawString(m["text"])
	p.Tool = rawString(m["tool"])
	p.Reason = rawString(m["reason"])
	if f, ok := rawNumber(m["cost"]); ok {
		p.Cost = &f
	}
	if st, ok := m["state"]; ok && !IsNull(st) {
		var sm map[string]json.RawMessage
		if json.Unmarshal(st, &sm) == nil {
			state := &ToolState{Status: rawString(sm["status"])}
			if out, ok := sm["output"]; ok {
				state.Output = out
			}
			if in, ok := sm["input"]; ok {
				if state.Input.UnmarshalJSON(in) != nil {
					state.Input = nil
				}
			}
			p.State = state
		}
	}
	if tk, ok := m["tokens"]; ok && !IsNull(tk) {
		var tm map[string]json.RawMessage
		if json.Unmarshal(tk, &tm) == nil {
			tokens := &Tokens{}
			if f, ok := rawNumber(tm["input"]); ok {
				tokens.Input = &f
			}
			if f, ok := rawNumber(tm["output"]); ok {
				tokens.Output = &f
			}
			p.Tokens = tokens
		}
	}
	return nil
}

// rawString returns raw as a Go string, or "" when it holds anything else.
func rawString(raw json.RawMessage) string {
	if !IsString(raw) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// rawNumber returns raw as a float64 when it holds a JSON number.
func rawNumber(raw json.RawMessage) (float64, bool) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || !(t[0] == '-' || (t[0] >= '0' && t[0] <= '9')) {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(t), 64)
	return f, err == nil
}

type Step struct {
	ID        string
	Timestamp int64
	MessageID string
	Events    []Event
}

// Typed views of the payload, one per known event type.

type StepStart struct {
	ID        string
	MessageID string
}

type TextPart struct {
	Text string
}

type ToolUse struct {
	Tool   string // "" when the log omits it
	Input  Input
	Output json.RawMessage
	Status string
}

type StepFinish struct {
	Cost         float64
	HasTokens    bool
	InputTokens  float64
	OutputTokens float64
	Reason       string
}

func (e Event) part() Part {
	if e.Part == nil {
		return Part{}
	}
	return *e.Part
}

func (e Event) StepStart() StepStart {
	p := e.part()
	return StepStart{ID: p.ID, MessageID: p.MessageID}
}

func (e Event) Text() TextPart {
	return TextPart{Text: e.part().Text}
}

func (e Event) ToolUse() ToolUse {
	p := e.part()
	tu := ToolUse{Tool: p.Tool}
	if p.State != nil {
		tu.Input = p.State.Input
		tu.Output = p.State.Output
		tu.Status = p.State.Status
	}
	return tu
}

func (e Event) StepFinish() StepFinish {
	p := e.part()
	sf := StepFinish{Reason: p.Reason}
	if p.Cost != nil {
		sf.Cost = *p.Cost
	}
	if p.Tokens != nil {
		sf.HasTokens = true
		if p.Tokens.Input != nil {
			sf.InputTokens = *p.Tokens.Input
		}
		if p.Tokens.Output != nil {
			sf.OutputTokens = *p.Tokens.Output
		}
	}
	return sf
}

// Start returns the step's step_start event, if it has one.
func (s Step) Start() (Event, bool) {
	return s.find(TypeStepStart)
}

// Finish returns the step's step_finish event, if it has one.
func (s Step) Finish() (Event, bool) {
	return s.find(TypeStepFinish)
}

func (s Step) find(t EventType) (Event, bool) {
	for _, e := range s.Events {
		if e.Type == t {
			return e, true
		}
	}
	return Event{}, false
}

// Count returns how many events of type t the step holds.
func (s Step) Count(t EventType) int {
	n := 0
	for _, e := range s.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Field is one key of a tool input object.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Input is a tool input object with its keys in log order.
type Input []Field

func (in *Input) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*in = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		// non-object inputs carry nothing renderable
		*in = nil
		return nil
	}

	var fields Input
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("input key: unexpected token %v", kt)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("input %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*in = fields
	return nil
}

func (in Input) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range in {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		if len(f.Value) == 0 {
			b.WriteString("null")
		} else {
			b.Write(f.Value)
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Get returns the raw value stored under key.
func (in Input) Get(key string) (json.RawMessage, bool) {
	for _, f := range in {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the value under key as display text, or "" when the
// key is absent or falsy.
func (in Input) String(key string) string {
	v, ok := in.Get(key)
	if !ok || IsFalsy(v) {
		return ""
	}
	return DisplayString(v)
}

// IsNull reports whether raw is absent or JSON null.
func IsNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// IsFalsy reports whether raw is absent, null, false, 0 or "".
func IsFalsy(raw json.RawMessage) bool {
	if IsNull(raw) {
		return true
	}
	t := bytes.TrimSpace(raw)
	switch t[0] {
	case 'f':
		return true
	case '"':
		return len(t) == 2
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(t), 64)
		return err == nil && f == 0
	}
	return false
}

// IsString reports whether raw holds a JSON string.
func IsString(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '"'
}

// IsComposite reports whether raw holds a JSON object or array.
func IsComposite(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && (t[0] == '{' || t[0] == '[')
}

// DisplayString converts a raw value the way a log viewer shows it:
// strings unquoted, numbers in shortest form, arrays as comma joined
// items and objects as "[object Object]".
func DisplayString(raw json.RawMessage) string {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return ""
	}
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err == nil {
			return s
		}
	case '[':
		return JoinDisplay(t, ",")
	case '{':
		return "[object Object]"
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if f, err := strconv.ParseFloat(string(t), 64); err == nil {
			return formatNumber(f)
		}
	}
	return string(t)
}

// JoinDisplay joins the display strings of an array's items with sep.
// Null items become empty strings. Non-arrays fall back to DisplayString.
func JoinDisplay(raw json.RawMessage, sep string) string {
	t := bytes.TrimSpace(raw)
	var items []json.RawMessage
	if err := json.Unmarshal(t, &items); err != nil {
		if len(t) > 0 && t[0] == '[' {
			return string(t)
		}
		return DisplayString(t)
	}
	parts := make([]string, len(items))
	for i, it := range items {
		if !IsNull(it) {
			parts[i] = DisplayString(it)
		}
	}
	return strings.Join(parts, sep)
}

// formatNumber prints f in its shortest round-trip form, switching to
// exponent notation outside [1e-6, 1e21).
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if a := math.Abs(f); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}

// PrettyJSON re-indents raw with two spaces, keeping key order.
func PrettyJSON(raw json.RawMessage) string {
	var b bytes.Buffer
	if err := json.Indent(&b, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return b.String()
}
