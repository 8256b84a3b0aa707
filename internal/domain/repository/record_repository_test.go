package repository

import (
	"testing"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
)

func TestRecordFilter_Matches(t *testing.T) {
	r := &record.Record{Owner: "owner-1", Kind: record.KindInteraction, Category: "support"}

	tests := []struct {
		name   string
		filter RecordFilter
		want   bool
	}{
		{"owner only", RecordFilter{Owner: "owner-1"}, true},
		{"other owner", RecordFilter{Owner: "owner-2"}, false},
		{"kind match", RecordFilter{Owner: "owner-1", Kind: record.KindInteraction}, true},
		{"kind mismatch", RecordFilter{Owner: "owner-1", Kind: record.KindDiscovery}, false},
		{"category match", RecordFilter{Owner: "owner-1", Category: "support"}, true},
		{"category is exact", RecordFilter{Owner: "owner-1", Category: "supp"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(r); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
