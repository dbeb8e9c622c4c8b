package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"sigs.k8s.io/yaml"
)

type SubjectKind string

const (
	TheorySubject    SubjectKind = "theory"
	LabSubject       SubjectKind = "lab"
	IntensiveSubject SubjectKind = "intensive"
)

// SubjectFamily selects the fallback pool used when no faculty record matches a subject
type SubjectFamily string

const (
	NoFamily           SubjectFamily = ""
	SoftSkillFamily    SubjectFamily = "softSkill"
	OpenElectiveFamily SubjectFamily = "openElective"
	TutorialFamily     SubjectFamily = "tutorial"
)

type FacultyKind string

const (
	NamedFaculty     FacultyKind = "named"
	DepartmentPool   FacultyKind = "department"
	SubstitutePool   FacultyKind = "substitute"
	IntensivePool    FacultyKind = "intensive"
	SoftSkillPool    FacultyKind = "softSkill"
	OpenElectivePool FacultyKind = "openElective"
	TutorialPool     FacultyKind = "tutorial"
)

// Pooled reports whether the kind stands for an unlimited-capacity department resource rather than a person
func (kind FacultyKind) Pooled() bool {
	return kind != NamedFaculty && kind != ""
}

type RawSubject struct {
	Id              string
	Name            string
	HoursPerWeek    int
	Sections        []int
	IsLabOrTutorial bool
	Kind            string
	Family          string
}

type RawFaculty struct {
	Id               string
	Name             string
	Subjects         []string
	AllottedSections []int
	Kind             string
}

type RawModelInput struct {
	Sections int
	Subjects []RawSubject
	Faculty  []RawFaculty
}

type Subject struct {
	Id           string        `json:"id" validate:"required"`
	Name         string        `json:"name"`
	HoursPerWeek int           `json:"hoursPerWeek" validate:"min=0,max=48"`
	Sections     []int         `json:"sections" validate:"dive,min=1"`
	Kind         SubjectKind   `json:"kind" validate:"oneof=theory lab intensive"`
	Family       SubjectFamily `json:"family,omitempty" validate:"omitempty,oneof=softSkill openElective tutorial"`
}

func (subject Subject) Eligible(section int) bool {
	return slices.Contains(subject.Sections, section)
}

func (subject Subject) IsLab() bool {
	return subject.Kind == LabSubject
}

func (subject Subject) IsIntensive() bool {
	return subject.Kind == IntensiveSubject
}

type Faculty struct {
	Id               string      `json:"id" validate:"required"`
	Name             string      `json:"name"`
	Subjects         []string    `json:"subjects" validate:"dive,required"`
	AllottedSections []int       `json:"allottedSections" validate:"dive,min=1"`
	Kind             FacultyKind `json:"kind" validate:"oneof=named department substitute intensive softSkill openElective tutorial"`
}

// Teaches checks whether the faculty can teach the subject, i.e. one of its subject prefixes prefixes the subject's id
func (faculty Faculty) Teaches(subjectId string) bool {
	return lo.SomeBy(faculty.Subjects, func(prefix string) bool {
		return strings.HasPrefix(subjectId, prefix)
	})
}

func (faculty Faculty) Allotted(section int) bool {
	return slices.Contains(faculty.AllottedSections, section)
}

type ModelInput struct {
	Sections int       `json:"sections" validate:"min=1"`
	Subjects []Subject `json:"subjects" validate:"dive"`
	Faculty  []Faculty `json:"faculty" validate:"dive"`
}

var validate = validator.New()

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}
	return InputFromBytes(bytes, "json")
}

func InputFromYaml(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}
	return InputFromBytes(bytes, "yaml")
}

// InputFromFile picks the decoder from the file's extension, defaulting to JSON
func InputFromFile(file string) (ModelInput, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return InputFromYaml(file)
	default:
		return InputFromJson(file)
	}
}

func InputFromBytes(bytes []byte, format string) (ModelInput, error) {
	if format == "yaml" {
		converted, err := yaml.YAMLToJSON(bytes)
		if err != nil {
			return ModelInput{}, fmt.Errorf("cannot convert yaml input: %w", err)
		}
		bytes = converted
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var rawInput RawModelInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: wholeNumberHook,
		Result:     &rawInput,
	})
	if err != nil {
		return ModelInput{}, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return ProcessRawInput(rawInput)
}

// wholeNumberHook rejects JSON numbers with a fractional part bound for integer fields, which mapstructure would
// otherwise truncate
func wholeNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 || to.Kind() != reflect.Int {
		return data, nil
	}
	value := data.(float64)
	if value != math.Trunc(value) {
		return nil, fmt.Errorf("expected a whole number, got %v", value)
	}
	return int(value), nil
}

// ProcessRawInput applies the loader defaults and tags every record with its explicit kind, then validates the result
func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	sections := rawInput.Sections
	if sections == 0 {
		sections = DefaultSections
	}
	allSections := lo.RangeFrom(1, sections)

	var errs error
	subjects := make([]Subject, 0, len(rawInput.Subjects))
	for _, raw := range rawInput.Subjects {
		kind := SubjectKind(raw.Kind)
		if kind == "" {
			kind = TheorySubject
			if raw.IsLabOrTutorial {
				kind = LabSubject
			}
		} else if raw.IsLabOrTutorial && kind != LabSubject {
			errs = multierr.Append(errs, fmt.Errorf("subject %q is flagged as lab/tutorial but declares kind %q", raw.Id, raw.Kind))
		}

		subject := Subject{
			Id:           raw.Id,
			Name:         lo.Ternary(raw.Name == "", raw.Id, raw.Name),
			HoursPerWeek: raw.HoursPerWeek,
			Sections:     lo.Ternary(len(raw.Sections) == 0, allSections, raw.Sections),
			Kind:         kind,
			Family:       SubjectFamily(raw.Family),
		}
		subjects = append(subjects, subject)
	}

	faculty := lo.Map(rawInput.Faculty, func(raw RawFaculty, _ int) Faculty {
		return Faculty{
			Id:               raw.Id,
			Name:             lo.Ternary(raw.Name == "", raw.Id, raw.Name),
			Subjects:         raw.Subjects,
			AllottedSections: lo.Ternary(len(raw.AllottedSections) == 0, allSections, raw.AllottedSections),
			Kind:             lo.Ternary(raw.Kind == "", NamedFaculty, FacultyKind(raw.Kind)),
		}
	})

	input := ModelInput{
		Sections: sections,
		Subjects: subjects,
		Faculty:  faculty,
	}

	if err := multierr.Append(errs, input.Validate()); err != nil {
		return ModelInput{}, err
	}
	return input, nil
}

// Validate rejects malformed input before any placement runs; every violation found is reported
func (input ModelInput) Validate() error {
	var errs error

	if err := validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				errs = multierr.Append(errs, fmt.Errorf("invalid field %s: failed %q rule (value %v)", fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Value()))
			}
		} else {
			errs = multierr.Append(errs, err)
		}
	}

	for _, id := range lo.FindDuplicates(lo.Map(input.Subjects, func(subject Subject, _ int) string { return subject.Id })) {
		errs = multierr.Append(errs, fmt.Errorf("duplicate subject %q", id))
	}
	for _, id := range lo.FindDuplicates(lo.Map(input.Faculty, func(faculty Faculty, _ int) string { return faculty.Id })) {
		errs = multierr.Append(errs, fmt.Errorf("duplicate faculty %q", id))
	}

	intensive := lo.Filter(input.Subjects, func(subject Subject, _ int) bool { return subject.IsIntensive() })
	if len(intensive) > 1 {
		errs = multierr.Append(errs, fmt.Errorf("at most one intensive subject is allowed, found %v", lo.Map(intensive, func(subject Subject, _ int) string { return subject.Id })))
	}

	for _, subject := range input.Subjects {
		if subject.IsLab() && subject.HoursPerWeek%LabBlockSize != 0 {
			errs = multierr.Append(errs, fmt.Errorf("lab/tutorial subject %q must require an even number of hours: %v", subject.Id, subject.HoursPerWeek))
		}
		if subject.IsIntensive() && subject.HoursPerWeek != IntensiveBlockSize {
			errs = multierr.Append(errs, fmt.Errorf("intensive subject %q must require exactly %v hours: %v", subject.Id, IntensiveBlockSize, subject.HoursPerWeek))
		}
		if section, ok := lo.Find(subject.Sections, func(section int) bool { return section > input.Sections }); ok {
			errs = multierr.Append(errs, fmt.Errorf("subject %q lists section %v beyond the section count %v", subject.Id, section, input.Sections))
		}
	}

	return errs
}

// Restrict returns a copy of the input limited to sections 1..sections. Section lists are filtered, so records that
// only concern dropped sections stay but place nothing
func (input ModelInput) Restrict(sections int) (ModelInput, error) {
	if sections < 1 || sections > input.Sections {
		return ModelInput{}, fmt.Errorf("cannot restrict %v sections to %v", input.Sections, sections)
	}
	kept := func(section int, _ int) bool { return section <= sections }

	restricted := ModelInput{
		Sections: sections,
		Subjects: lo.Map(input.Subjects, func(subject Subject, _ int) Subject {
			subject.Sections = lo.Filter(subject.Sections, kept)
			return subject
		}),
		Faculty: lo.Map(input.Faculty, func(faculty Faculty, _ int) Faculty {
			faculty.AllottedSections = lo.Filter(faculty.AllottedSections, kept)
			faculty.Subjects = slices.Clone(faculty.Subjects)
			return faculty
		}),
	}
	return restricted, nil
}
