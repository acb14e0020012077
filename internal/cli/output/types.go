package output

// LintSummary counts lint results by severity.
type LintSummary struct {
	FilesScanned    int `json:"files_scanned"`
	FilesWithIssues int `json:"files_with_issues"`
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
	Hints           int `json:"hints"`
	Baselined       int `json:"baselined,omitempty"`
}

// LintDiagnostic is one finding in JSON output.
type LintDiagnostic struct {
	RuleID    string `json:"rule_id"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line,omitempty"`
	EndColumn int    `json:"end_column,omitempty"`
}

// LintFileResult groups diagnostics by file in JSON output.
type LintFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

// LintOutput is the JSON document written by the lint command.
type LintOutput struct {
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
	Errors  []LintFileError  `json:"errors,omitempty"`
}

// LintFileError reports a file that could not be analyzed.
type LintFileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}
