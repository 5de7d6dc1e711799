package paper

import "testing"

func TestPaper_ValidateForCreate(t *testing.T) {
	tests := []struct {
		name    string
		paper   Paper
		wantErr error
	}{
		{
			name:    "valid paper",
			paper:   Paper{ID: "Smith2024", Title: "Graphs", PublicationYear: 2024},
			wantErr: nil,
		},
		{
			name:    "unknown year is allowed",
			paper:   Paper{ID: "Smith2024", Title: "Graphs"},
			wantErr: nil,
		},
		{
			name:    "empty id",
			paper:   Paper{ID: "  ", Title: "Graphs"},
			wantErr: ErrEmptyID,
		},
		{
			name:    "empty title",
			paper:   Paper{ID: "Smith2024"},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "negative year",
			paper:   Paper{ID: "Smith2024", Title: "Graphs", PublicationYear: -1},
			wantErr: ErrBadYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.paper.ValidateForCreate()
			if err != tt.wantErr {
				t.Errorf("ValidateForCreate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaper_Age(t *testing.T) {
	p := Paper{ID: "a", PublicationYear: 2015}
	if age, ok := p.Age(2020); !ok || age != 5 {
		t.Errorf("Age(2020) = %d, %v; want 5, true", age, ok)
	}
	if age, ok := p.Age(2010); !ok || age != 0 {
		t.Errorf("Age(2010) = %d, %v; want 0, true", age, ok)
	}

	unknown := Paper{ID: "b"}
	if _, ok := unknown.Age(2020); ok {
		t.Error("Age() should report unknown year")
	}
}

func TestPaper_Text(t *testing.T) {
	p := Paper{Abstract: "abstract"}
	if got := p.Text(); got != "abstract" {
		t.Errorf("Text() = %q, want abstract", got)
	}
	p.FullText = "full"
	if got := p.Text(); got != "full" {
		t.Errorf("Text() = %q, want full", got)
	}
}
