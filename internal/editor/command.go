package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

var (
	// ErrUnknownOperation indicates a command naming no store operation.
	ErrUnknownOperation = errors.New("editor: unknown operation")
	// ErrInvalidCommand indicates a command whose arguments cannot be decoded.
	ErrInvalidCommand = errors.New("editor: invalid command")
)

// Command is the wire form of a single store operation.
type Command struct {
	Op       string             `json:"op"`
	ID       string             `json:"id,omitempty"`
	Section  resume.SectionID   `json:"section,omitempty"`
	From     int                `json:"from,omitempty"`
	To       int                `json:"to,omitempty"`
	Order    []resume.SectionID `json:"order,omitempty"`
	Value    string             `json:"value,omitempty"`
	Patch    json.RawMessage    `json:"patch,omitempty"`
	Document *LoadInput         `json:"document,omitempty"`
}

type commandHandler func(store *Store, command Command) error

var commandHandlers = map[string]commandHandler{
	"setTitle": func(store *Store, command Command) error {
		store.SetTitle(command.Value)
		return nil
	},
	"setTemplate": func(store *Store, command Command) error {
		template, err := resume.ParseTemplate(command.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
		store.SetTemplate(template)
		return nil
	},
	"setContent": func(store *Store, command Command) error {
		var content resume.Content
		if err := decodePatch(command.Patch, &content); err != nil {
			return err
		}
		content = content.Normalize()
		if err := validateOrder(content.SectionOrder); err != nil {
			return err
		}
		store.SetContent(content)
		return nil
	},
	"loadResume": func(store *Store, command Command) error {
		if command.Document == nil {
			return fmt.Errorf("%w: document required", ErrInvalidCommand)
		}
		input := *command.Document
		input.Content = input.Content.Normalize()
		if err := validateOrder(input.Content.SectionOrder); err != nil {
			return err
		}
		store.LoadResume(input)
		return nil
	},
	"resetResume": func(store *Store, _ Command) error {
		store.ResetResume()
		return nil
	},
	"updatePersonalInfo": func(store *Store, command Command) error {
		var patch resume.PersonalInfoPatch
		if err := decodePatch(command.Patch, &patch); err != nil {
			return err
		}
		store.UpdatePersonalInfo(patch)
		return nil
	},
	"updateSummary": func(store *Store, command Command) error {
		store.UpdateSummary(command.Value)
		return nil
	},
	"addSection": func(store *Store, command Command) error {
		store.AddSection(command.Section)
		return nil
	},
	"removeSection": func(store *Store, command Command) error {
		store.RemoveSection(command.Section)
		return nil
	},
	"reorderSections": func(store *Store, command Command) error {
		if err := validateOrder(command.Order); err != nil {
			return err
		}
		store.ReorderSections(command.Order)
		return nil
	},
	"reorderExperience": func(store *Store, command Command) error {
		store.ReorderExperience(command.From, command.To)
		return nil
	},
	"reorderEducation": func(store *Store, command Command) error {
		store.ReorderEducation(command.From, command.To)
		return nil
	},
}

func init() {
	registerCollection("Experience", (*Store).AddExperience, (*Store).UpdateExperience, (*Store).RemoveExperience)
	registerCollection("Education", (*Store).AddEducation, (*Store).UpdateEducation, (*Store).RemoveEducation)
	registerCollection("Skill", (*Store).AddSkill, (*Store).UpdateSkill, (*Store).RemoveSkill)
	registerCollection("Link", (*Store).AddLink, (*Store).UpdateLink, (*Store).RemoveLink)
	registerCollection("Language", (*Store).AddLanguage, (*Store).UpdateLanguage, (*Store).RemoveLanguage)
	registerCollection("Course", (*Store).AddCourse, (*Store).UpdateCourse, (*Store).RemoveCourse)
	registerCollection("Certification", (*Store).AddCertification, (*Store).UpdateCertification, (*Store).RemoveCertification)
	registerCollection("Project", (*Store).AddProject, (*Store).UpdateProject, (*Store).RemoveProject)
	registerCollection("Award", (*Store).AddAward, (*Store).UpdateAward, (*Store).RemoveAward)
	registerCollection("Volunteer", (*Store).AddVolunteer, (*Store).UpdateVolunteer, (*Store).RemoveVolunteer)
	registerCollection("Publication", (*Store).AddPublication, (*Store).UpdatePublication, (*Store).RemovePublication)
	registerCollection("Reference", (*Store).AddReference, (*Store).UpdateReference, (*Store).RemoveReference)
	registerCollection("Hobby", (*Store).AddHobby, (*Store).UpdateHobby, (*Store).RemoveHobby)
}

func registerCollection[P any](
	name string,
	add func(*Store) error,
	update func(*Store, string, P),
	remove func(*Store, string),
) {
	commandHandlers["add"+name] = func(store *Store, _ Command) error {
		return add(store)
	}
	commandHandlers["update"+name] = func(store *Store, command Command) error {
		var patch P
		if err := decodePatch(command.Patch, &patch); err != nil {
			return err
		}
		update(store, command.ID, patch)
		return nil
	}
	commandHandlers["remove"+name] = func(store *Store, command Command) error {
		remove(store, command.ID)
		return nil
	}
}

// Execute dispatches command to the matching store operation.
func Execute(store *Store, command Command) error {
	handler, ok := commandHandlers[strings.TrimSpace(command.Op)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, command.Op)
	}
	return handler(store, command)
}

func validateOrder(order []resume.SectionID) error {
	if err := resume.ValidateSectionOrder(order); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return nil
}

func decodePatch(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return nil
}
