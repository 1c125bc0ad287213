package models

// Sex mirrors the two values the demographic collaborator produces.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// LabourForceStatus classifies a person's participation in the workforce.
type LabourForceStatus string

const (
	Employed      LabourForceStatus = "EMPLOYED"
	Unemployed    LabourForceStatus = "UNEMPLOYED"
	NotApplicable LabourForceStatus = "NOT_APPLICABLE"
)

// Job is a person's employment record: who they work for (outside this
// core's concern), when it started, and the salary drawn from it.
type Job struct {
	Owner     ID
	StartDate Date
	Salary    Money
}

// Person is a single resident. Jobs are kept in the order they were
// taken; the most recent is last.
type Person struct {
	ID                ID
	Age               int
	Sex               Sex
	Living            bool
	LabourForceStatus LabourForceStatus
	Jobs              []Job
	FamilyID          ID
}

// HasJobs reports whether the person currently holds any job.
func (p *Person) HasJobs() bool {
	return len(p.Jobs) > 0
}

// SetID assigns the repository-issued ID. Called once, by Repository.AddNew.
func (p *Person) SetID(id ID) {
	p.ID = id
}
