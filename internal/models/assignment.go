package models

// Assignment is a numbered exercise parsed out of a free-text model reply.
type Assignment struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PracticalAssignment is a structured exercise returned by the practical
// assignment generator (and by its demo-data fallback).
type PracticalAssignment struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Difficulty     string   `json:"difficulty"`
	Objectives     []string `json:"objectives"`
	Instructions   string   `json:"instructions"`
	ExpectedOutput string   `json:"expectedOutput"`
	Hints          []string `json:"hints,omitempty"`
	CodeTemplate   string   `json:"codeTemplate,omitempty"`
	EstimatedTime  string   `json:"estimatedTime"`
	Keywords       []string `json:"keywords,omitempty"`
}

// LabProcedure is one step of a laboratory assignment.
type LabProcedure struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

// LabRubricCriterion scores one aspect of a laboratory assignment.
type LabRubricCriterion struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// LabRubric is the grading rubric of a laboratory assignment.
type LabRubric struct {
	Criteria    []LabRubricCriterion `json:"criteria"`
	TotalPoints int                  `json:"totalPoints"`
}

// LaboratoryAssignment is a full lab work descriptor.
type LaboratoryAssignment struct {
	ID              int            `json:"id"`
	Title           string         `json:"title"`
	Objective       string         `json:"objective"`
	Hypothesis      string         `json:"hypothesis"`
	Duration        string         `json:"duration"`
	Materials       []string       `json:"materials"`
	Procedures      []LabProcedure `json:"procedures"`
	ExpectedResults string         `json:"expectedResults"`
	Observations    string         `json:"observations,omitempty"`
	Analysis        string         `json:"analysis,omitempty"`
	Conclusions     string         `json:"conclusions,omitempty"`
	Rubric          *LabRubric     `json:"rubric,omitempty"`
	References      []string       `json:"references,omitempty"`
}

// CourseInfo is the extracted course metadata.
type CourseInfo struct {
	CourseName     string   `json:"courseName"`
	CourseType     string   `json:"courseType"`
	Level          string   `json:"level"`
	MainTopics     []string `json:"mainTopics"`
	TargetAudience string   `json:"targetAudience"`
}
