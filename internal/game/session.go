package game

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Player-facing notices written by the session itself.
const (
	MsgNoAction    = "[No action bound to input]"
	MsgSaved       = "✅ Game saved."
	MsgSaveFailed  = "⚠️ Could not save game."
	MsgLoaded      = "🔄 Game loaded."
	MsgNoSave      = "⚠️ No saved game found."
	MsgInvalidSave = "No valid save found. Starting new game..."
)

// CuePlayer fires a sound cue without waiting for it to finish.
type CuePlayer interface {
	Play(cue string)
}

// Transition consumes the input submitted for a pending prompt.
type Transition func(input string)

// PendingPrompt is the single outstanding request for player input.
type PendingPrompt struct {
	Label      string
	Transition Transition
}

// Session drives one playthrough. It is not safe for concurrent use; the
// UI calls it from its update loop only.
type Session struct {
	id      string
	story   *Story
	log     *Log
	pending *PendingPrompt
	store   Checkpointer
	cues    CuePlayer
	logger  *zap.Logger

	scene   string
	outcome string
}

func NewSession(story *Story, store Checkpointer, cues CuePlayer, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		id:     id,
		story:  story,
		log:    NewLog(MaxLogLines),
		store:  store,
		cues:   cues,
		logger: logger.Named("session").With(zap.String("session_id", id)),
	}
}

// Start enters sceneID, or the story's start scene when it is empty.
func (s *Session) Start(sceneID string) {
	if sceneID == "" {
		sceneID = s.story.Start
	}
	s.logger.Info("session started", zap.String("scene", sceneID))
	s.EnterScene(sceneID)
}

// EnterScene prints the scene script, fires its cues and then either asks
// for input, restores a checkpoint or moves on to the scene's successor.
func (s *Session) EnterScene(id string) {
	scene, ok := s.story.Scene(id)
	if !ok {
		s.logger.Error("unknown scene", zap.String("scene", id), zap.String("from", s.scene))
		return
	}
	s.scene = id
	s.logger.Debug("enter scene", zap.String("scene", id))

	if scene.Clear {
		s.log.Clear()
	}
	s.play(scene.Script, "")

	switch {
	case scene.Restore:
		s.restore(scene)
	case scene.Prompt != "":
		s.RequestInput(scene.Prompt, s.transitionFor(scene))
	case scene.Next != "":
		s.EnterScene(scene.Next)
	}
}

// RequestInput records the pending prompt and shows its label.
func (s *Session) RequestInput(prompt string, fn Transition) {
	s.pending = &PendingPrompt{Label: prompt, Transition: fn}
	s.log.Append(prompt)
}

// SubmitInput hands text to the pending prompt, if any. The prompt is
// cleared before its transition runs so the transition may request again.
func (s *Session) SubmitInput(text string) {
	if s.pending == nil {
		s.logger.Info("input with no pending prompt", zap.String("input", text))
		s.log.Append(MsgNoAction)
		return
	}
	fn := s.pending.Transition
	s.pending = nil
	s.log.Append("> " + text)
	fn(text)
}

func (s *Session) transitionFor(scene *Scene) Transition {
	return func(input string) {
		out, idx, ok := scene.Classify(input)
		if !ok {
			s.logger.Warn("no branch or fallback", zap.String("scene", scene.ID), zap.String("input", input))
			return
		}
		s.logger.Debug("branch chosen",
			zap.String("scene", scene.ID),
			zap.Int("branch", idx),
			zap.String("input", input))
		s.apply(scene, out, input)
	}
}

func (s *Session) apply(scene *Scene, out Outcome, input string) {
	s.play(out.Script, input)
	if out.Save != "" {
		s.save(out.Save)
	}

	switch {
	case out.Next != "":
		s.EnterScene(out.Next)
	case out.Retry:
		s.RequestInput(scene.Prompt, s.transitionFor(scene))
	default:
		s.outcome = out.End
		s.logger.Info("story ended", zap.String("scene", scene.ID), zap.String("outcome", out.End))
	}
}

func (s *Session) play(script []Beat, input string) {
	for _, b := range script {
		if b.IsCue() {
			if s.cues != nil {
				s.cues.Play(b.Cue)
			}
			continue
		}
		s.log.Append(s.story.Render(b.Text, input))
	}
}

func (s *Session) save(tag string) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(tag); err != nil {
		s.logger.Error("checkpoint not saved", zap.String("checkpoint", tag), zap.Error(err))
		s.log.Append(MsgSaveFailed)
		return
	}
	s.log.Append(MsgSaved)
}

func (s *Session) restore(scene *Scene) {
	var (
		tag string
		ok  bool
	)
	if s.store != nil {
		tag, ok = s.store.Load()
	}
	if ok {
		s.log.Append(MsgLoaded)
	} else {
		s.log.Append(MsgNoSave)
	}

	if resume, known := s.story.ResumeScene(tag); ok && known {
		s.logger.Info("resuming", zap.String("checkpoint", tag), zap.String("scene", resume))
		s.EnterScene(resume)
		return
	}
	if ok {
		s.logger.Warn("unrecognized checkpoint", zap.String("checkpoint", tag))
	}
	s.log.Append(MsgInvalidSave)
	s.EnterScene(scene.Next)
}

func (s *Session) ID() string { return s.id }

// Lines returns the display log, oldest first.
func (s *Session) Lines() []string { return s.log.Lines() }

// Prompt returns the pending prompt label, or "" when nothing is pending.
func (s *Session) Prompt() string {
	if s.pending == nil {
		return ""
	}
	return s.pending.Label
}

func (s *Session) Pending() bool { return s.pending != nil }

// Scene is the id of the last scene entered.
func (s *Session) Scene() string { return s.scene }

// Outcome is the end label once the story has stopped ("" otherwise).
func (s *Session) Outcome() string { return s.outcome }

func (s *Session) Title() string { return s.story.Title }
