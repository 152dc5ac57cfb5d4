package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Beat is one step of a script: either a line of text or a sound cue.
type Beat struct {
	Text string `yaml:"text,omitempty"`
	Cue  string `yaml:"cue,omitempty"`
}

// UnmarshalYAML accepts a bare scalar as a text beat, so scripts read like
// prose with the occasional {cue: ...} mapping between lines.
func (b *Beat) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		b.Text = value.Value
		return nil
	}

	type plain Beat
	var p plain
	if err := value.Decode(&p); err != nil {
		return fmt.Errorf("line %d: invalid beat: %w", value.Line, err)
	}
	if p.Text != "" && p.Cue != "" {
		return fmt.Errorf("line %d: beat has both text and cue", value.Line)
	}
	*b = Beat(p)
	return nil
}

// IsCue reports whether the beat fires a sound instead of printing text.
func (b Beat) IsCue() bool {
	return b.Cue != ""
}

// Matcher holds the accepted responses for a branch. Input is compared
// after trimming and lowercasing; patterns are written in lowercase.
type Matcher struct {
	Exact    []string `yaml:"exact,omitempty"`
	Prefix   []string `yaml:"prefix,omitempty"`
	Contains []string `yaml:"contains,omitempty"`
}

// Matches checks exact tokens first, then prefixes, then substrings.
func (m Matcher) Matches(normalized string) bool {
	for _, e := range m.Exact {
		if normalized == e {
			return true
		}
	}
	for _, p := range m.Prefix {
		if strings.HasPrefix(normalized, p) {
			return true
		}
	}
	for _, c := range m.Contains {
		if strings.Contains(normalized, c) {
			return true
		}
	}
	return false
}

// Normalize folds player input the same way at every branch point.
func Normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Outcome is what happens once a branch (or the fallback) is chosen.
// After the script and the optional save, the session follows Next,
// re-issues the current prompt on Retry, or stops.
type Outcome struct {
	Script []Beat `yaml:"script,omitempty"`
	Save   string `yaml:"save,omitempty"`
	Next   string `yaml:"next,omitempty"`
	Retry  bool   `yaml:"retry,omitempty"`
	End    string `yaml:"end,omitempty"` // label for terminal outcomes, e.g. "died"
}

// Terminal reports whether the outcome leaves the player without a prompt.
func (o Outcome) Terminal() bool {
	return o.Next == "" && !o.Retry
}

// Branch pairs a matcher with its outcome.
type Branch struct {
	Match   Matcher `yaml:"match"`
	Outcome `yaml:",inline"`
}

// Scene is a single node of the story graph.
type Scene struct {
	ID       string   `yaml:"id"`
	Clear    bool     `yaml:"clear,omitempty"`
	Script   []Beat   `yaml:"script,omitempty"`
	Prompt   string   `yaml:"prompt,omitempty"`
	Branches []Branch `yaml:"branches,omitempty"`
	Fallback *Outcome `yaml:"fallback,omitempty"`
	Restore  bool     `yaml:"restore,omitempty"` // load the checkpoint on entry
	Next     string   `yaml:"next,omitempty"`
}

// Classify returns the outcome for the given raw input. The boolean is
// false when neither a branch nor a fallback applies.
func (s *Scene) Classify(input string) (Outcome, int, bool) {
	v := Normalize(input)
	for i, br := range s.Branches {
		if br.Match.Matches(v) {
			return br.Outcome, i, true
		}
	}
	if s.Fallback != nil {
		return *s.Fallback, -1, true
	}
	return Outcome{}, -1, false
}

// Story is the whole narrative: scenes plus the tables they refer to.
type Story struct {
	Title       string            `yaml:"title"`
	Start       string            `yaml:"start"`
	Names       map[string]string `yaml:"names,omitempty"`
	Cues        map[string]string `yaml:"cues,omitempty"`
	Checkpoints map[string]string `yaml:"checkpoints,omitempty"`
	Scenes      []Scene           `yaml:"scenes"`

	index map[string]*Scene
}

// Scene looks up a scene by id.
func (s *Story) Scene(id string) (*Scene, bool) {
	if s.index == nil {
		s.reindex()
	}
	sc, ok := s.index[id]
	return sc, ok
}

// ResumeScene maps a checkpoint tag to the scene it resumes at.
func (s *Story) ResumeScene(tag string) (string, bool) {
	id, ok := s.Checkpoints[tag]
	if !ok {
		return "", false
	}
	if _, exists := s.Scene(id); !exists {
		return "", false
	}
	return id, true
}

func (s *Story) reindex() {
	s.index = make(map[string]*Scene, len(s.Scenes))
	for i := range s.Scenes {
		s.index[s.Scenes[i].ID] = &s.Scenes[i]
	}
}

// Render substitutes {name} placeholders and {input}.
func (s *Story) Render(text, input string) string {
	if !strings.Contains(text, "{") {
		return text
	}
	pairs := make([]string, 0, 2*len(s.Names)+2)
	for k, v := range s.Names {
		pairs = append(pairs, "{"+k+"}", v)
	}
	pairs = append(pairs, "{input}", strings.TrimSpace(input))
	return strings.NewReplacer(pairs...).Replace(text)
}
