package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"go.uber.org/zap"
)

// DefaultSampleRate is used for decoding when no audio context is attached.
const DefaultSampleRate = 44100

// Manager resolves cue ids to decoded clips and plays them.
type Manager struct {
	ctx    *audio.Context
	dir    string
	files  map[string]string // cue -> file name under dir
	clips  map[string][]byte
	volume float64

	// Players are kept until they finish so they are not collected while
	// still sounding.
	active []*audio.Player

	logger *zap.Logger
}

// NewManager creates a sound manager. A nil ctx gives a muted manager that
// logs and skips every cue.
func NewManager(ctx *audio.Context, dir string, files map[string]string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		ctx:    ctx,
		dir:    dir,
		files:  files,
		clips:  make(map[string][]byte, len(files)),
		volume: 1.0,
		logger: logger.Named("sound"),
	}
}

// Load decodes every known cue into memory. Missing or broken files are
// logged once and returned; they are never fatal.
func (m *Manager) Load() []string {
	var missing []string
	for cue, name := range m.files {
		path := filepath.Join(m.dir, name)
		clip, err := m.decode(path)
		if err != nil {
			m.logger.Warn("sound unavailable", zap.String("cue", cue), zap.String("path", path), zap.Error(err))
			missing = append(missing, cue)
			continue
		}
		m.clips[cue] = clip
	}
	sort.Strings(missing)
	return missing
}

func (m *Manager) decode(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	rate := DefaultSampleRate
	if m.ctx != nil {
		rate = m.ctx.SampleRate()
	}
	stream, err := mp3.DecodeWithSampleRate(rate, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}
	clip, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}
	return clip, nil
}

// Loaded reports whether a cue has a playable clip.
func (m *Manager) Loaded(cue string) bool {
	_, ok := m.clips[cue]
	return ok
}

// SetVolume clamps v to [0, 1].
func (m *Manager) SetVolume(v float64) {
	m.volume = max(0.0, min(1.0, v))
}

func (m *Manager) Volume() float64 {
	return m.volume
}

// Play starts the cue and returns immediately.
func (m *Manager) Play(cue string) {
	if m.ctx == nil {
		m.logger.Debug("muted", zap.String("cue", cue))
		return
	}
	clip, ok := m.clips[cue]
	if !ok {
		m.logger.Warn("sound missing", zap.String("cue", cue))
		return
	}

	m.prune()
	p := m.ctx.NewPlayerFromBytes(clip)
	p.SetVolume(m.volume)
	p.Play()
	m.active = append(m.active, p)
}

func (m *Manager) prune() {
	live := m.active[:0]
	for _, p := range m.active {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		if err := p.Close(); err != nil {
			m.logger.Debug("close player", zap.Error(err))
		}
	}
	m.active = live
}
