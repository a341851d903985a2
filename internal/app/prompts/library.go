package prompts

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/PabloGalante/farum-counselor/internal/domain"
)

const (
	// NotFoundFallback is returned when the category exists but no group
	// matches the subcategory.
	NotFoundFallback = "I'm here to support you. What would you like to talk about?"

	// FormatFallback is returned when a template could not be rendered.
	FormatFallback = "I'm here to listen and support you. What's on your mind?"

	// TechniqueFallback is returned by TherapeuticResponse on any failure.
	TechniqueFallback = "I understand this is difficult. Can you tell me more about what you're experiencing?"
)

var (
	ErrTemplateNotFound   = errors.New("template not found")
	ErrNotATemplate       = errors.New("key does not name a template group")
	ErrMissingPlaceholder = errors.New("missing placeholder value")
	ErrMalformedTemplate  = errors.New("malformed template")
)

// Key identifies a template group. Section is only set for nested groups,
// such as techniques under a therapy approach.
type Key struct {
	Category string
	Section  string
	Name     string
}

// Group is an ordered, nonempty list of interchangeable phrasings.
type Group []string

type Entry struct {
	Key   Key
	Group Group
}

// Picker chooses an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

type Option func(*Library)

// WithPicker replaces the random source, mostly for tests.
func WithPicker(p Picker) Option {
	return func(l *Library) {
		if p != nil {
			l.picker = p
		}
	}
}

// WithEntries replaces the built-in template table.
func WithEntries(entries []Entry) Option {
	return func(l *Library) {
		l.entries = entries
	}
}

// Library is a read-only template registry. It is safe for concurrent use as
// long as the picker is.
type Library struct {
	persona    string
	entries    []Entry
	direct     map[Key]int
	categories map[string]bool
	sections   map[Key]bool
	picker     Picker
}

func NewLibrary(opts ...Option) *Library {
	l := &Library{
		persona: basePersona,
		entries: defaultEntries(),
		picker:  globalPicker{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.buildIndex()
	return l
}

func (l *Library) buildIndex() {
	l.direct = make(map[Key]int, len(l.entries))
	l.categories = map[string]bool{CategoryBaseSystem: true}
	l.sections = make(map[Key]bool)
	for i, e := range l.entries {
		if len(e.Group) == 0 {
			continue
		}
		l.categories[e.Key.Category] = true
		if e.Key.Section != "" {
			l.sections[Key{Category: e.Key.Category, Name: e.Key.Section}] = true
		}
		if _, dup := l.direct[e.Key]; !dup {
			l.direct[e.Key] = i
		}
	}
}

// Persona returns the fixed system persona text.
func (l *Library) Persona() string {
	return l.persona
}

// Lookup resolves (category, subcategory) to a template group. A direct key
// wins; otherwise nested sections are searched in declaration order.
// ErrTemplateNotFound means the category exists but nothing matched,
// ErrNotATemplate covers unknown categories and keys that do not name a group.
func (l *Library) Lookup(category, subcategory string) (Group, error) {
	if category == CategoryBaseSystem {
		return Group{l.persona}, nil
	}
	if !l.categories[category] {
		return nil, fmt.Errorf("%w: unknown category %q", ErrNotATemplate, category)
	}
	if subcategory == "" {
		return nil, fmt.Errorf("%w: category %q needs a subcategory", ErrNotATemplate, category)
	}

	if i, ok := l.direct[Key{Category: category, Name: subcategory}]; ok {
		return l.entries[i].Group, nil
	}
	if l.sections[Key{Category: category, Name: subcategory}] {
		return nil, fmt.Errorf("%w: %s/%s is a section", ErrNotATemplate, category, subcategory)
	}

	for _, e := range l.entries {
		if e.Key.Category == category && e.Key.Section != "" && e.Key.Name == subcategory && len(e.Group) > 0 {
			return e.Group, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrTemplateNotFound, category, subcategory)
}

// Get returns a rendered template and never fails: lookup misses return
// NotFoundFallback, anything else that goes wrong returns FormatFallback.
func (l *Library) Get(category, subcategory string, vars map[string]string) string {
	if category == CategoryBaseSystem {
		return l.persona
	}

	group, err := l.Lookup(category, subcategory)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return NotFoundFallback
		}
		return FormatFallback
	}

	out, err := Render(l.pick(group), vars)
	if err != nil {
		return FormatFallback
	}
	return out
}

// CrisisPrompt picks a crisis script for kind, defaulting to immediate_safety.
func (l *Library) CrisisPrompt(kind string) string {
	group, ok := l.group(Key{Category: CategoryCrisisPrompts, Name: kind})
	if !ok {
		group, _ = l.group(Key{Category: CategoryCrisisPrompts, Name: "immediate_safety"})
	}
	return l.pick(group)
}

// EmotionalResponse picks a response for state, defaulting to neutral.
func (l *Library) EmotionalResponse(state domain.EmotionalState) string {
	group, ok := l.group(Key{Category: CategoryEmotionalResponses, Name: string(state)})
	if !ok {
		group, _ = l.group(Key{Category: CategoryEmotionalResponses, Name: string(domain.EmotionNeutral)})
	}
	return l.pick(group)
}

// TherapeuticResponse renders a technique template under a specific approach.
func (l *Library) TherapeuticResponse(approach domain.TherapyApproach, technique string, vars map[string]string) string {
	group, ok := l.group(Key{Category: CategoryTherapeuticTechniques, Section: string(approach), Name: technique})
	if !ok {
		return TechniqueFallback
	}
	out, err := Render(l.pick(group), vars)
	if err != nil {
		return TechniqueFallback
	}
	return out
}

func (l *Library) group(k Key) (Group, bool) {
	i, ok := l.direct[k]
	if !ok {
		return nil, false
	}
	return l.entries[i].Group, true
}

func (l *Library) pick(g Group) string {
	switch len(g) {
	case 0:
		return FormatFallback
	case 1:
		return g[0]
	default:
		return g[l.picker.IntN(len(g))]
	}
}

// Render substitutes {name} placeholders from vars. "{{" and "}}" produce
// literal braces. Unused vars are ignored.
func Render(tmpl string, vars map[string]string) (string, error) {
	if !strings.ContainsAny(tmpl, "{}") {
		return tmpl, nil
	}

	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at offset %d", ErrMalformedTemplate, i)
			}
			name := tmpl[i+1 : i+1+end]
			if name == "" || strings.ContainsRune(name, '{') {
				return "", fmt.Errorf("%w: bad placeholder at offset %d", ErrMalformedTemplate, i)
			}
			val, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("%w: %s", ErrMissingPlaceholder, name)
			}
			b.WriteString(val)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrMalformedTemplate, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
