package domain

type GenerationSource string

const (
	GenerationSourceCSV GenerationSource = "csv"
	GenerationSourceSQL GenerationSource = "sql"
)

type GenerationResult string

const (
	GenerationResultSuccess GenerationResult = "success"
	GenerationResultFailure GenerationResult = "failure"
)
