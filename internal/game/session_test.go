package game

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCues struct {
	mock.Mock
}

func (m *mockCues) Play(cue string) {
	m.Called(cue)
}

func (m *mockCues) played() []string {
	var cues []string
	for _, c := range m.Calls {
		cues = append(cues, c.Arguments.String(0))
	}
	return cues
}

func newTestSession(t *testing.T) (*Session, *FileStore, *mockCues) {
	t.Helper()
	store := newTestStore(t)
	cues := new(mockCues)
	cues.On("Play", mock.Anything).Return()
	return NewSession(loadStory(t), store, cues, zap.NewNop()), store, cues
}

// submit sends input and returns only the lines it produced.
func submit(s *Session, input string) []string {
	before := len(s.Lines())
	s.SubmitInput(input)
	return s.Lines()[before:]
}

func TestEnterSceneAppendsScriptThenPrompt(t *testing.T) {
	story := loadStory(t)
	for _, sc := range story.Scenes {
		if sc.Prompt == "" {
			continue
		}
		t.Run(sc.ID, func(t *testing.T) {
			s := NewSession(story, newTestStore(t), nil, zap.NewNop())
			s.EnterScene(sc.ID)

			var want []string
			for _, b := range sc.Script {
				if !b.IsCue() {
					want = append(want, story.Render(b.Text, ""))
				}
			}
			want = append(want, sc.Prompt)

			assert.Equal(t, want, s.Lines())
			assert.Equal(t, sc.Prompt, s.Prompt())
			assert.Equal(t, sc.ID, s.Scene())
		})
	}
}

func TestSubmitWithoutPrompt(t *testing.T) {
	s, _, _ := newTestSession(t)

	lines := submit(s, "hello")
	assert.Equal(t, []string{MsgNoAction}, lines)
	assert.Empty(t, s.Scene())
	assert.False(t, s.Pending())
}

func TestRequestInputClearedBeforeTransition(t *testing.T) {
	s, _, _ := newTestSession(t)

	var got string
	var pendingDuring bool
	s.RequestInput("Say something:", func(input string) {
		got = input
		pendingDuring = s.Pending()
	})
	assert.Equal(t, "Say something:", s.Prompt())

	lines := submit(s, "boo")
	assert.Equal(t, "boo", got)
	assert.False(t, pendingDuring)
	assert.Equal(t, []string{"> boo"}, lines)
	assert.Empty(t, s.Prompt())

	assert.Equal(t, []string{MsgNoAction}, submit(s, "again"))
}

func TestBranches(t *testing.T) {
	tests := []struct {
		name        string
		scene       string
		input       string
		wantScene   string
		wantOutcome string
		wantPending bool
		wantLine    string
	}{
		{"menu new", "main_menu", "1", "intro", "", true, "Starting new game..."},
		{"menu new text", "main_menu", "New game please", "intro", "", true, "You arrived at a new neighborhood."},
		{"menu invalid", "main_menu", "banana", "main_menu", "", true, "Invalid selection. Type 1 or 2 or 'exit' to quit."},

		{"intro 1", "intro", "1", "garland_goodmorning", "", true, "My name is Garland"},
		{"intro ouch", "intro", "Ouch!!! who are you", "garland_goodmorning", "", true, "My name is Garland"},
		{"intro 2", "intro", "2", "garland_hello_goodbye", "", true, "THAT'S RUDE!!!!! DO YOU HAVE ANY MANNERS!!!!"},
		{"intro rude", "intro", "man WHY ARE YOU IN MY WAY", "garland_hello_goodbye", "", true, "My name is Garland"},
		{"intro 3", "intro", "3", "garland_mybad", "", true, "OHHH!!!!! Excuse my manners. My name is Garland"},
		{"intro didn't see", "intro", "sorry i didn't see you", "garland_mybad", "", true, "OHHH!!!!! Excuse my manners. My name is Garland"},
		{"intro default", "intro", "hmm", "ghost_encounter", "", true, "Invalid choice. Proceeding anyway..."},

		{"goodmorning", "garland_goodmorning", "Good morning!", "ghost_encounter", "", true, "How you doing, Angel?"},
		{"goodmorning default", "garland_goodmorning", "hi", "ghost_encounter", "", true, "Garland nods silently."},

		{"hello", "garland_hello_goodbye", "Hello", "ghost_encounter", "", true, "Nice to meet you, Angel"},
		{"goodbye", "garland_hello_goodbye", "goodbye", "ghost_encounter", "", true, "Goodbye, Angel"},
		{"hello exact only", "garland_hello_goodbye", "hello there", "ghost_encounter", "", true, "Sorry, Angel"},

		{"my bad", "garland_mybad", "My bad", "name_reply", "", true, "What's your name?"},
		{"my bad default", "garland_mybad", "no", "ghost_encounter", "", true, "Garland shrugs."},

		{"name is", "name_reply", "My name is Bob", "ghost_encounter", "", true, "I'm sorry for bumping into you."},
		{"name default", "name_reply", "Bob", "ghost_encounter", "", true, "Nice to meet you, Bob."},

		{"ghost 1", "ghost_encounter", "1", "ghost_next_move", "", true, "The Ghost begins to attack!"},
		{"ghost candle", "ghost_encounter", "throw candle", "ghost_next_move", "", true, "Choose your next move:"},
		{"ghost 2", "ghost_encounter", "2", "forest_encounter", "", true, "It whispers cryptic things and then fades."},
		{"ghost ask", "ghost_encounter", "can I ask something", "forest_encounter", "", true, "The Ghost responds..."},
		{"ghost 3", "ghost_encounter", "3", "forest_encounter", "", true, "You jump out the window."},
		{"ghost default", "ghost_encounter", "run", "ghost_encounter", "died", false, "You died."},

		{"next 1", "ghost_next_move", "1", "ghost_next_move", "died", false, "RIP!!!!!"},
		{"next attack", "ghost_next_move", "attack it", "ghost_next_move", "died", false, "Angel lies in a pool of his own blood."},
		{"next 2", "ghost_next_move", "2", "forest_encounter", "", true, "He jumps out the window and runs into the forest."},
		{"next run", "ghost_next_move", "run away", "forest_encounter", "", true, "After running into the forest with watery eyes..."},
		{"next 3", "ghost_next_move", "3", "ghost_next_move", "passed_away", false, "He passed away."},
		{"next forest", "ghost_next_move", "head to the forest", "ghost_next_move", "passed_away", false, "The ghost stops him."},
		{"next default", "ghost_next_move", "hide", "ghost_next_move", "died", false, "You died."},

		{"forest 1", "forest_encounter", "1", "garland_follows", "", true, "1. A GHOST!!!!!"},
		{"forest chasing", "forest_encounter", "Hey, there's a ghost chasing after me", "garland_follows", "", true, "Garland chooses:"},
		{"forest 2", "forest_encounter", "2", "forest_encounter", "garland_died", false, "Garland says: Let's book it!"},
		{"forest got away", "forest_encounter", "I just got away", "forest_encounter", "garland_died", false, "Garland passed away."},
		{"forest 3", "forest_encounter", "3", "forest_encounter", "garland_died", false, "Garland says: That ghost has been haunting me for weeks."},
		{"forest did you see", "forest_encounter", "did you see the ghost", "forest_encounter", "garland_died", false, "We need to leave before he—"},
		{"forest default", "forest_encounter", "hmm", "forest_encounter", "", false, "TO BE CONTINUED!!!!!"},

		{"follows 1", "garland_follows", "1", "garland_follows", "garland_died", false, "Let's get out of here."},
		{"follows a ghost", "garland_follows", "A GHOST!!!!!", "garland_follows", "garland_died", false, "Are you okay? I recall a ghost chasing me earlier."},
		{"follows 2", "garland_follows", "2", "garland_helper_answer", "", true, "Was the ghost at your house?"},
		{"follows got away", "garland_follows", "I just got away from the ghost too.", "garland_helper_answer", "", true, "You (yes/no):"},
		{"follows 3", "garland_follows", "3", "garland_follows", "garland_died", false, "Let's run for it!"},
		{"follows did you see", "garland_follows", "did you see it", "garland_follows", "garland_died", false, "Let's run for it!"},
		{"follows default", "garland_follows", "what", "garland_follows", "", false, "Confusion spreads. TO BE CONTINUED!!!!!"},

		{"helper yes", "garland_helper_answer", "yes", "garland_helper_answer", "garland_died", false, "SHIT!!!! Hopefully we can escape before he—"},
		{"helper y", "garland_helper_answer", "Y", "garland_helper_answer", "garland_died", false, "Okay, we need to get going then."},
		{"helper no", "garland_helper_answer", "no", "garland_helper_answer", "", false, "You decide to move carefully through the trees."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession(t)
			s.Start(tt.scene)
			require.True(t, s.Pending())

			lines := submit(s, tt.input)
			assert.Equal(t, "> "+tt.input, lines[0])
			assert.Contains(t, lines, tt.wantLine)
			assert.Equal(t, tt.wantScene, s.Scene())
			assert.Equal(t, tt.wantOutcome, s.Outcome())
			assert.Equal(t, tt.wantPending, s.Pending())
		})
	}
}

func TestDeadEndsIgnoreInput(t *testing.T) {
	for _, tc := range []struct{ scene, input string }{
		{"ghost_encounter", "nothing"},
		{"forest_encounter", "hmm"},
		{"garland_follows", "what"},
		{"garland_helper_answer", "no"},
	} {
		t.Run(tc.scene, func(t *testing.T) {
			s, _, _ := newTestSession(t)
			s.Start(tc.scene)
			submit(s, tc.input)
			require.False(t, s.Pending())

			scene, outcome := s.Scene(), s.Outcome()
			for _, in := range []string{"1", "2", "yes"} {
				assert.Equal(t, []string{MsgNoAction}, submit(s, in))
			}
			assert.Equal(t, scene, s.Scene())
			assert.Equal(t, outcome, s.Outcome())
		})
	}
}

func TestScenarioRudeIntroductionThenHello(t *testing.T) {
	s, store, _ := newTestSession(t)
	s.Start("")
	submit(s, "1")
	require.Equal(t, "intro", s.Scene())

	assert.Equal(t, []string{
		"> 2",
		"THAT'S RUDE!!!!! DO YOU HAVE ANY MANNERS!!!!",
		"Angel: OKAY!!! I'm a little vexed. Excuse my manners. What's your name?",
		"My name is Garland",
		"Garland: (hello/goodbye/other)",
	}, submit(s, "2"))

	lines := submit(s, "hello")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, []string{
		"> hello",
		"Nice to meet you, Angel",
		MsgSaved,
		"",
		"After meeting Garland, Angel decides to go to his new home.",
	}, lines[:5])
	assert.Equal(t, "Make your choice:", lines[len(lines)-1])
	assert.Equal(t, "ghost_encounter", s.Scene())

	tag, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, "after_garland", tag)
}

func TestScenarioAwaitTheGhost(t *testing.T) {
	s, _, cues := newTestSession(t)
	s.Start("ghost_encounter")

	lines := submit(s, "await")
	assert.Equal(t, []string{
		"> await",
		"The Ghost prepares to attack.",
		"You avoided the attack.",
		"You jump out the window.",
		"",
		"After running into the forest with watery eyes...",
	}, lines[:6])
	assert.NotContains(t, lines, "You died.")
	assert.Equal(t, "forest_encounter", s.Scene())
	assert.Empty(t, s.Outcome())
	assert.True(t, s.Pending())

	assert.Equal(t, []string{"ghost", "phasmophobia", "window_break"}, cues.played())
}

func TestScenarioLoadWithoutSave(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Start("")

	lines := submit(s, "2")
	assert.Equal(t, []string{
		"> 2",
		MsgNoSave,
		MsgInvalidSave,
		"Starting new game...",
		"You arrived at a new neighborhood.",
	}, lines[:5])
	assert.Equal(t, "intro", s.Scene())
	assert.Equal(t, "Make your selection:", s.Prompt())
}

func TestLoadResumesCheckpoint(t *testing.T) {
	s, store, cues := newTestSession(t)
	require.NoError(t, store.Save("after_garland"))
	s.Start("")

	lines := submit(s, "load")
	assert.Equal(t, []string{"> load", MsgLoaded, ""}, lines[:3])
	assert.Equal(t, "ghost_encounter", s.Scene())
	assert.Equal(t, []string{"ghost"}, cues.played())
}

func TestLoadUnknownCheckpointStartsNewGame(t *testing.T) {
	s, store, _ := newTestSession(t)
	require.NoError(t, store.Save("after_ghost"))
	s.Start("")

	lines := submit(s, "2")
	assert.Equal(t, []string{"> 2", MsgLoaded, MsgInvalidSave, "Starting new game..."}, lines[:4])
	assert.Equal(t, "intro", s.Scene())
}

func TestMenuRetryKeepsPrompting(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Start("")
	menu := len(s.Lines())

	for i := 0; i < 2; i++ {
		assert.Equal(t, []string{
			"> ?",
			"Invalid selection. Type 1 or 2 or 'exit' to quit.",
			"Select 1 or 2:",
		}, submit(s, "?"))
	}
	assert.Equal(t, "main_menu", s.Scene())
	assert.Len(t, s.Lines(), menu+6, "the menu script is not replayed")
}

func TestCueOrder(t *testing.T) {
	s, _, cues := newTestSession(t)
	s.Start("forest_encounter")
	submit(s, "3")

	assert.Equal(t, []string{"syringe_inject", "whisper_flashes", "voice_isee_you", "blood_splat"}, cues.played())
	cues.AssertNumberOfCalls(t, "Play", 4)
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "save.txt"), zap.NewNop())
	s := NewSession(loadStory(t), store, nil, zap.NewNop())
	s.Start("garland_goodmorning")

	lines := submit(s, "good morning")
	assert.Contains(t, lines, MsgSaveFailed)
	assert.NotContains(t, lines, MsgSaved)
	assert.Equal(t, "ghost_encounter", s.Scene())
	assert.True(t, s.Pending())
}

func TestUnknownSceneLeavesNoPrompt(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Start("nowhere")

	assert.False(t, s.Pending())
	assert.Empty(t, s.Lines())
	assert.Equal(t, []string{MsgNoAction}, submit(s, "1"))
}

func TestLogStaysBounded(t *testing.T) {
	s, _, _ := newTestSession(t)
	for i := 0; i < 250; i++ {
		s.SubmitInput("x")
	}
	assert.Len(t, s.Lines(), MaxLogLines)
}

func TestSessionID(t *testing.T) {
	a, _, _ := newTestSession(t)
	b, _, _ := newTestSession(t)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "Creepy Pasta Adventure", a.Title())
}
