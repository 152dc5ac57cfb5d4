package main

import (
	_ "embed"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"creepy-pasta/internal/config"
	"creepy-pasta/internal/game"
	"creepy-pasta/internal/logger"
	"creepy-pasta/internal/ui"
	"creepy-pasta/pkg/sound"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

//go:embed story/story.yaml
var embeddedStory []byte

func main() {
	sceneFlag := flag.String("scene", "", "Start at a specific scene id (debug)")
	storyFlag := flag.String("story", "", "Load the story from a YAML file instead of the built-in one")
	resetFlag := flag.Bool("reset", false, "Reset save data")
	muteFlag := flag.Bool("mute", false, "Disable sound effects")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	savePath := cfg.SaveFile
	if savePath == "" {
		if savePath, err = game.DefaultSavePath(); err != nil {
			fmt.Printf("Error resolving save path: %v\n", err)
			os.Exit(1)
		}
	}
	store := game.NewFileStore(savePath, log)

	if *resetFlag {
		if err := store.Reset(); err != nil {
			fmt.Printf("Error resetting state: %v\n", err)
		} else {
			fmt.Println("Save state reset.")
		}
		return
	}

	storyPath := cfg.StoryFile
	if *storyFlag != "" {
		storyPath = *storyFlag
	}
	var story *game.Story
	if storyPath != "" {
		story, err = game.LoadStory(storyPath)
	} else {
		story, err = game.ParseStory(embeddedStory)
	}
	if err != nil {
		fmt.Printf("Error loading story: %v\n", err)
		os.Exit(1)
	}

	var actx *audio.Context
	if !cfg.Mute && !*muteFlag {
		actx = audio.NewContext(cfg.SampleRate)
	}
	sounds := sound.NewManager(actx, cfg.SoundDir, story.Cues, log)
	sounds.SetVolume(cfg.Volume)
	if actx != nil {
		if missing := sounds.Load(); len(missing) > 0 {
			log.Warn("some sound cues will be skipped", zap.Strings("cues", missing))
		}
	}

	session := game.NewSession(story, store, sounds, log)
	session.Start(*sceneFlag)

	p := tea.NewProgram(ui.NewModel(session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("program exited with error", zap.Error(err))
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	path := cfg.LogFile
	if path == "" {
		dir, err := game.AppDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "game.log")
	}
	return logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Encoding:   cfg.LogEncoding,
		OutputPath: path,
	})
}
