package model

import "fmt"

// disambiguate returns the key used for exclusivity checks. Named faculty are globally exclusive, whereas every
// section gets its own instance of a pooled resource so that unrelated sections never collide on it
func disambiguate(identity facultyIdentity, section int) string {
	if identity.Kind.Pooled() {
		return fmt.Sprintf("%s_S%d", identity.Id, section)
	}
	return identity.Id
}

// identityKinds maps every identity that may appear in a timetable (faculty records and fallback pools) to its kind
func identityKinds(faculty []Faculty) map[string]FacultyKind {
	kinds := map[string]FacultyKind{intensivePool.Id: intensivePool.Kind}
	for _, pool := range fallbackPools {
		kinds[pool.Id] = pool.Kind
	}
	// Records take precedence over fallback pools sharing their id
	for _, record := range faculty {
		if record.Kind == "" {
			kinds[record.Id] = NamedFaculty
		} else {
			kinds[record.Id] = record.Kind
		}
	}
	return kinds
}

// ExclusivityKey returns the identity an entry occupies for faculty exclusivity, given the identity kinds of the input
func ExclusivityKey(entry ScheduleEntry, kinds map[string]FacultyKind) string {
	kind, ok := kinds[entry.FacultyId]
	if !ok {
		kind = NamedFaculty
	}
	return disambiguate(facultyIdentity{Id: entry.FacultyId, Kind: kind}, entry.Section)
}

func (input ModelInput) IdentityKinds() map[string]FacultyKind {
	return identityKinds(input.Faculty)
}
