package registry

import "testing"

func TestIdentify(t *testing.T) {
	records := []CompanyRecord{
		{Company: "Acme", Fields: []string{"Date:"}},
		{Company: "Acme Corp", Fields: []string{"Order No"}},
		{Company: "Globex", Fields: []string{"Date:"}},
	}

	tests := []struct {
		name    string
		text    string
		want    string
		matched bool
	}{
		{
			name:    "registry order is the tie-break",
			text:    "acme corp invoice",
			want:    "Acme",
			matched: true,
		},
		{
			name:    "case-insensitive match",
			text:    "Invoice issued by GLOBEX industries",
			want:    "Globex",
			matched: true,
		},
		{
			name:    "no match",
			text:    "Initech purchase order",
			matched: false,
		},
		{
			name:    "empty text",
			text:    "",
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Identify(tt.text, records)
			if ok != tt.matched {
				t.Fatalf("Identify(%q) matched = %t, want %t", tt.text, ok, tt.matched)
			}
			if rec.Company != tt.want {
				t.Errorf("Identify(%q) = %q, want %q", tt.text, rec.Company, tt.want)
			}
		})
	}
}

func TestIdentifyEmptyRegistry(t *testing.T) {
	if _, ok := Identify("anything", nil); ok {
		t.Error("Identify over empty registry matched")
	}
}
