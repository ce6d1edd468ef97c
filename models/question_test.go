package models

import "testing"

func TestWrongOptionList(t *testing.T) {
	question := Question{}
	if err := question.SetWrongOptions([]string{"Jamais", "Une fois par mois"}); err != nil {
		t.Fatalf("SetWrongOptions failed: %v", err)
	}

	options := question.WrongOptionList()
	if len(options) != 2 || options[0] != "Jamais" || options[1] != "Une fois par mois" {
		t.Errorf("Unexpected options: %v", options)
	}
}

func TestWrongOptionListMalformed(t *testing.T) {
	question := Question{WrongOptions: "not json"}
	if options := question.WrongOptionList(); options != nil {
		t.Errorf("Malformed column should yield no options, got %v", options)
	}
}
