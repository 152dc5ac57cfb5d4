package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadStory parses a YAML story file
func LoadStory(filepath string) (*Story, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read story file: %w", err)
	}
	return ParseStory(data)
}

// ParseStory parses story YAML already in memory (e.g. the embedded copy).
func ParseStory(data []byte) (*Story, error) {
	var story Story
	if err := yaml.Unmarshal(data, &story); err != nil {
		return nil, fmt.Errorf("failed to parse story YAML: %w", err)
	}
	if len(story.Scenes) == 0 {
		return nil, fmt.Errorf("story has no scenes")
	}
	if story.Start == "" {
		story.Start = story.Scenes[0].ID
	}
	story.reindex()
	return &story, nil
}
