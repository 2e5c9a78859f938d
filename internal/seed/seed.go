// Package seed loads the character catalog from files into the store.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/internal/repository"
)

// CharacterFile is the on-disk shape of one character.
type CharacterFile struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Persona     any    `json:"persona" yaml:"persona"`
}

// Result counts what a seeding pass did.
type Result struct {
	Created int
	Updated int
	Skipped int
}

// Characters upserts every *.json, *.yaml and *.yml file in dir. A missing
// directory is not an error; a file that cannot be loaded is logged and skipped.
func Characters(ctx context.Context, store repository.Store, dir string) (Result, error) {
	var res Result

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("WARN: character data directory does not exist: %s", dir)
			return res, nil
		}
		return res, fmt.Errorf("failed to read character data directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		log.Printf("INFO: no character files found in %s", dir)
		return res, nil
	}
	log.Printf("INFO: found %d character files, synchronizing", len(files))

	for _, path := range files {
		character, err := LoadFile(path)
		if err != nil {
			log.Printf("WARN: failed to process character file %s: %v", filepath.Base(path), err)
			res.Skipped++
			continue
		}

		created, err := store.UpsertCharacter(ctx, character)
		if err != nil {
			log.Printf("ERROR: failed to upsert character %s: %v", character.ID, err)
			res.Skipped++
			continue
		}
		if created {
			log.Printf("INFO: character added: %s (%s)", character.Name, character.ID)
			res.Created++
		} else {
			log.Printf("INFO: character updated: %s (%s)", character.Name, character.ID)
			res.Updated++
		}
	}
	return res, nil
}

// LoadFile parses one character file. The id defaults to the file name without extension.
func LoadFile(path string) (*domain.Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file CharacterFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	if strings.TrimSpace(file.Name) == "" {
		return nil, errors.New("name is required")
	}
	if file.ID == "" {
		file.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var persona json.RawMessage
	if file.Persona != nil {
		persona, err = json.Marshal(file.Persona)
		if err != nil {
			return nil, fmt.Errorf("failed to encode persona: %w", err)
		}
	}

	return &domain.Character{
		ID:          file.ID,
		Name:        file.Name,
		Description: file.Description,
		PersonaData: persona,
	}, nil
}
