package constants

// Stage names the position of a workflow run in its state machine.
type Stage string

// Document path: START -> INTENT_CLASSIFIED -> {OCR_ENGLISH, OCR_URDU} -> MERGED -> DONE.
// Form path: START -> INTENT_CLASSIFIED -> LAYOUT_EXTRACTED -> FILTERED -> CHUNKED
// -> EXTRACTED -> VALIDATED -> DONE. DONE is terminal for both success and
// failure; the run's error list distinguishes them.
const (
	StageStart            Stage = "START"
	StageIntentClassified Stage = "INTENT_CLASSIFIED"
	StageOCREnglish       Stage = "OCR_ENGLISH"
	StageOCRUrdu          Stage = "OCR_URDU"
	StageMerged           Stage = "MERGED"
	StageLayoutExtracted  Stage = "LAYOUT_EXTRACTED"
	StageFiltered         Stage = "FILTERED"
	StageChunked          Stage = "CHUNKED"
	StageExtracted        Stage = "EXTRACTED"
	StageValidated        Stage = "VALIDATED"
	StageDone             Stage = "DONE"
)
