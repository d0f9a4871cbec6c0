package service

import "testing"

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pdf", "pdf"},
		{".PDF", "pdf"},
		{"application/pdf", "pdf"},
		{"docx", "docx"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx"},
		{"doc", ""},
		{"txt", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeFormat(tt.in); got != tt.want {
			t.Errorf("normalizeFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractText_Failures(t *testing.T) {
	svc := NewExtractService()

	if got := svc.ExtractText([]byte("plain text"), "txt"); got != "" {
		t.Errorf("unsupported format should yield empty text, got %q", got)
	}
	if got := svc.ExtractText([]byte("definitely not a pdf"), "pdf"); got != "" {
		t.Errorf("corrupt PDF should yield empty text, got %q", got)
	}
	if got := svc.ExtractText([]byte("definitely not a docx"), "docx"); got != "" {
		t.Errorf("corrupt DOCX should yield empty text, got %q", got)
	}
}
