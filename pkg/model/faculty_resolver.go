package model

import "github.com/samber/lo"

// Fallback identities for subjects that no faculty record covers in a section
const (
	IntensivePoolId    = "INTENSIVE_DEPT"
	SoftSkillPoolId    = "SOFT_SKILL_DEPT"
	OpenElectivePoolId = "OPEN_ELECTIVE_DEPT"
	TutorialPoolId     = "TUTORIAL_DEPT"
	GenericPoolId      = "GENERIC_DEPT"
)

var fallbackPools = map[SubjectFamily]facultyIdentity{
	SoftSkillFamily:    {Id: SoftSkillPoolId, Kind: SoftSkillPool},
	OpenElectiveFamily: {Id: OpenElectivePoolId, Kind: OpenElectivePool},
	TutorialFamily:     {Id: TutorialPoolId, Kind: TutorialPool},
	NoFamily:           {Id: GenericPoolId, Kind: DepartmentPool},
}

var intensivePool = facultyIdentity{Id: IntensivePoolId, Kind: IntensivePool}

type facultyIdentity struct {
	Id   string
	Kind FacultyKind
}

type facultyResolver interface {
	// Returns the identity responsible for teaching the subject to the section. It never fails: subjects without
	// a matching faculty record fall back to a department pool chosen by the subject's kind and family
	Resolve(subject Subject, section int) facultyIdentity
}

func newFacultyResolver(faculty []Faculty) facultyResolver {
	return &facultyResolverImplementation{faculty: faculty}
}

type facultyResolverImplementation struct {
	faculty []Faculty
}

func (resolver *facultyResolverImplementation) Resolve(subject Subject, section int) facultyIdentity {
	// First match in the caller's order wins
	match, ok := lo.Find(resolver.faculty, func(faculty Faculty) bool {
		return faculty.Allotted(section) && faculty.Teaches(subject.Id)
	})
	if ok {
		return facultyIdentity{Id: match.Id, Kind: lo.Ternary(match.Kind == "", NamedFaculty, match.Kind)}
	}

	if subject.IsIntensive() {
		return intensivePool
	}
	if pool, ok := fallbackPools[subject.Family]; ok {
		return pool
	}
	return fallbackPools[NoFamily]
}
