package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlGameFile is the top-level YAML structure for adventure content files.
type yamlGameFile struct {
	Game yamlGame `yaml:"game"`
}

// yamlGame is the YAML representation of a complete adventure.
type yamlGame struct {
	Title             string            `yaml:"title"`
	Intro             string            `yaml:"intro"`
	StartRoom         string            `yaml:"start_room"`
	ScriptDir         string            `yaml:"script_dir"`
	Objectives        []yamlObjective   `yaml:"objectives"`
	Rooms             []yamlRoom        `yaml:"rooms"`
	Items             []yamlItem        `yaml:"items"`
	Characters        []yamlCharacter   `yaml:"characters"`
	VerbSynonyms      map[string]string `yaml:"verb_synonyms"`
	DirectionSynonyms map[string]string `yaml:"direction_synonyms"`
}

type yamlObjective struct {
	Flag        string `yaml:"flag"`
	Description string `yaml:"description"`
}

type yamlRoom struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Exits       map[string]string    `yaml:"exits"`
	LockedExits map[string]yamlLock  `yaml:"locked_exits"`
	Items       []string             `yaml:"items"`
	Characters  []string             `yaml:"characters"`
	Features    map[string]string    `yaml:"features"`
}

type yamlLock struct {
	RequiresItem   string `yaml:"requires_item"`
	RequiresFlag   string `yaml:"requires_flag"`
	FailureMessage string `yaml:"failure_message"`
}

type yamlEvent struct {
	Message  string `yaml:"message"`
	SetFlag  string `yaml:"set_flag"`
	GiveItem string `yaml:"give_item"`
}

type yamlUseAction struct {
	Target   string `yaml:"target"`
	Message  string `yaml:"message"`
	SetFlag  string `yaml:"set_flag"`
	GiveItem string `yaml:"give_item"`
	Consume  bool   `yaml:"consume"`
}

type yamlItem struct {
	ID                string            `yaml:"id"`
	Name              string            `yaml:"name"`
	Description       string            `yaml:"description"`
	ShortDescription  string            `yaml:"short_description"`
	Aliases           []string          `yaml:"aliases"`
	Takeable          *bool             `yaml:"takeable"`
	Visible           *bool             `yaml:"visible"`
	TakeFailMessage   string            `yaml:"take_fail_message"`
	OnTake            *yamlEvent        `yaml:"on_take"`
	UseActions        []yamlUseAction   `yaml:"use_actions"`
	UseFailMessage    string            `yaml:"use_fail_message"`
	StateDescriptions map[string]string `yaml:"state_descriptions"`
}

type yamlDialogueNode struct {
	ID       string `yaml:"id"`
	Text     string `yaml:"text"`
	SetFlag  string `yaml:"set_flag"`
	GiveItem string `yaml:"give_item"`
	Next     string `yaml:"next"`
	Loop     string `yaml:"loop"`
}

type yamlCharacter struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Aliases     []string           `yaml:"aliases"`
	Greeting    string             `yaml:"greeting"`
	Dialogue    []yamlDialogueNode `yaml:"dialogue"`
}

// LoadGameFromFile reads and validates a single adventure YAML file.
//
// Precondition: path must point to a valid YAML adventure file.
// Postcondition: Returns a validated Game or a non-nil error.
func LoadGameFromFile(path string) (*Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading game file %s: %w", path, err)
	}
	return LoadGameFromBytes(data)
}

// LoadGameFromBytes parses and validates an adventure from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the game schema.
// Postcondition: Returns a validated Game or a non-nil error.
func LoadGameFromBytes(data []byte) (*Game, error) {
	var file yamlGameFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing game YAML: %w", err)
	}

	game := convertYAMLGame(file.Game)
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("validating game: %w", err)
	}

	return game, nil
}

// convertYAMLGame converts the parsed YAML structures into domain types,
// substituting documented defaults for absent optional fields.
func convertYAMLGame(yg yamlGame) *Game {
	game := &Game{
		Title:             yg.Title,
		Intro:             strings.TrimSpace(yg.Intro),
		StartRoom:         yg.StartRoom,
		ScriptDir:         yg.ScriptDir,
		Rooms:             make(map[string]*Room, len(yg.Rooms)),
		Items:             make(map[string]*Item, len(yg.Items)),
		Characters:        make(map[string]*Character, len(yg.Characters)),
		VerbSynonyms:      make(map[string]string),
		DirectionSynonyms: DefaultDirectionSynonyms(),
	}

	for _, yo := range yg.Objectives {
		game.Objectives = append(game.Objectives, Objective{
			Flag:        yo.Flag,
			Description: yo.Description,
		})
	}
	for k, v := range yg.VerbSynonyms {
		game.VerbSynonyms[strings.ToLower(k)] = strings.ToLower(v)
	}
	for k, v := range yg.DirectionSynonyms {
		game.DirectionSynonyms[strings.ToLower(k)] = strings.ToLower(v)
	}

	for _, yr := range yg.Rooms {
		game.Rooms[yr.ID] = convertYAMLRoom(yr)
	}
	for _, yi := range yg.Items {
		game.Items[yi.ID] = convertYAMLItem(yi)
	}
	for _, yc := range yg.Characters {
		game.Characters[yc.ID] = convertYAMLCharacter(yc)
	}

	return game
}

func convertYAMLRoom(yr yamlRoom) *Room {
	room := &Room{
		ID:          yr.ID,
		Name:        yr.Name,
		Description: strings.TrimSpace(yr.Description),
		Exits:       make(map[Direction]string, len(yr.Exits)),
		Items:       yr.Items,
		Characters:  yr.Characters,
		Features:    yr.Features,
	}
	if room.Features == nil {
		room.Features = make(map[string]string)
	}
	for dir, target := range yr.Exits {
		room.Exits[Direction(strings.ToLower(dir))] = target
	}
	if len(yr.LockedExits) > 0 {
		room.LockedExits = make(map[Direction]LockRequirement, len(yr.LockedExits))
		for dir, yl := range yr.LockedExits {
			room.LockedExits[Direction(strings.ToLower(dir))] = LockRequirement{
				RequiresItem:   yl.RequiresItem,
				RequiresFlag:   yl.RequiresFlag,
				FailureMessage: yl.FailureMessage,
			}
		}
	}
	return room
}

func convertYAMLItem(yi yamlItem) *Item {
	item := &Item{
		ID:                yi.ID,
		Name:              yi.Name,
		Description:       strings.TrimSpace(yi.Description),
		ShortDescription:  yi.ShortDescription,
		Aliases:           yi.Aliases,
		Takeable:          true,
		Visible:           true,
		TakeFailMessage:   yi.TakeFailMessage,
		UseFailMessage:    yi.UseFailMessage,
		StateDescriptions: yi.StateDescriptions,
	}
	if yi.Takeable != nil {
		item.Takeable = *yi.Takeable
	}
	if yi.Visible != nil {
		item.Visible = *yi.Visible
	}
	if yi.OnTake != nil {
		item.OnTake = &Event{
			Message:  yi.OnTake.Message,
			SetFlag:  yi.OnTake.SetFlag,
			GiveItem: yi.OnTake.GiveItem,
		}
	}
	for _, ya := range yi.UseActions {
		item.UseActions = append(item.UseActions, UseAction{
			Target:   ya.Target,
			Message:  ya.Message,
			SetFlag:  ya.SetFlag,
			GiveItem: ya.GiveItem,
			Consume:  ya.Consume,
		})
	}
	return item
}

func convertYAMLCharacter(yc yamlCharacter) *Character {
	ch := &Character{
		ID:          yc.ID,
		Name:        yc.Name,
		Description: strings.TrimSpace(yc.Description),
		Aliases:     yc.Aliases,
		Greeting:    yc.Greeting,
	}
	for _, yn := range yc.Dialogue {
		ch.Dialogue = append(ch.Dialogue, DialogueNode{
			ID:       yn.ID,
			Text:     yn.Text,
			SetFlag:  yn.SetFlag,
			GiveItem: yn.GiveItem,
			Next:     yn.Next,
			Loop:     yn.Loop,
		})
	}
	return ch
}
