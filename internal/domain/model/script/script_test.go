package script

import (
	"reflect"
	"testing"
)

func TestEntry_Text(t *testing.T) {
	tmpl := Template{ID: "4", Category: "clarity", Template: "When you said [specific thing], I heard [your interpretation]."}

	e := NewEntry(tmpl)
	if e.IsCustomized() {
		t.Error("new entry should not be customized")
	}
	if e.Text() != tmpl.Template {
		t.Errorf("Text() = %q, want template", e.Text())
	}

	e.Customized = "When you said you were busy, I heard you were upset."
	if !e.IsCustomized() {
		t.Error("entry with override should be customized")
	}
	if e.Text() != e.Customized {
		t.Errorf("Text() = %q, want customized text", e.Text())
	}
	if e.Template.Template != tmpl.Template {
		t.Error("customizing must not touch the template")
	}
}

func TestTemplate_Placeholders(t *testing.T) {
	tmpl := Template{Template: "I can't make [specific event/plan] because [ brief reason ]. No brackets here."}

	got := tmpl.Placeholders()
	want := []string{"specific event/plan", "brief reason"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Placeholders() = %v, want %v", got, want)
	}

	if got := (Template{Template: "plain"}).Placeholders(); len(got) != 0 {
		t.Errorf("Placeholders() = %v, want empty", got)
	}
}
