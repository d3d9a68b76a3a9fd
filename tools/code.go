package tools

// CodeExecutionResult is the structured result of the simulated code runner.
type CodeExecutionResult struct {
	Success  bool   `json:"success"`
	Language string `json:"language"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Note     string `json:"note"`
}

// ExecuteCode pretends to run a snippet. Execution is simulated: nothing is
// evaluated and the snippet is echoed back.
func ExecuteCode(code, language string) *CodeExecutionResult {
	if language == "" {
		language = "python"
	}
	return &CodeExecutionResult{
		Success:  true,
		Language: language,
		Message:  "Code execution is simulated. In production this would run in a sandboxed environment.",
		Code:     code,
		Note:     "Use Piston API or Judge0 for real code execution",
	}
}
