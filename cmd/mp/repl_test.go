package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sgj123456/MP-lang/mp"
)

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateHelpCommandTogglesPanel(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestEvaluateKeepsBindingsAcrossLines(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate("let score = 40")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}

	output, isErr = m.evaluate("score + 2")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "42" {
		t.Fatalf("unexpected output: %q", output)
	}

	score, ok := m.env.Variables()["score"]
	if !ok {
		t.Fatalf("expected score to be stored in repl env")
	}
	if score.Kind() != mp.KindInt || score.Int() != 40 {
		t.Fatalf("unexpected score value: %#v", score)
	}
}

func TestEvaluateShowsPrintedOutputBeforeResult(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate(`print("side effect"); 7`)
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "side effect\n7" {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestEvaluateReportsErrors(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate("missing")
	if !isErr {
		t.Fatalf("expected an error, got %q", output)
	}
	if !strings.Contains(output, "undefined variable") {
		t.Fatalf("unexpected error output: %q", output)
	}
}

func TestResetCommandClearsEnvironment(t *testing.T) {
	m := newREPLModel()
	if _, isErr := m.evaluate("let x = 1"); isErr {
		t.Fatalf("setup eval failed")
	}

	m, _ = m.handleCommand(":reset")

	if _, isErr := m.evaluate("x"); !isErr {
		t.Fatalf("expected x to be gone after reset")
	}
}

func TestAutocompleteSingleMatchCompletes(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue("pri")

	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "print" {
		t.Fatalf("unexpected completion: %q", got)
	}
}

func TestAutocompleteIncludesSessionVariables(t *testing.T) {
	m := newREPLModel()
	if _, isErr := m.evaluate("let velocity = 3"); isErr {
		t.Fatalf("setup eval failed")
	}
	m.textInput.SetValue("velo")

	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "velocity" {
		t.Fatalf("unexpected completion: %q", got)
	}
}
