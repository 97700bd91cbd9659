package entity

import "testing"

func TestDeriveLineStatus(t *testing.T) {
	cases := []struct {
		name      string
		requested int
		approved  int
		backorder int
		rejected  int
		want      string
	}{
		{"fully approved", 10, 10, 0, 0, LineStatusApproved},
		{"fully rejected", 10, 0, 0, 10, LineStatusRejected},
		{"fully backordered", 10, 0, 10, 0, LineStatusBackordered},
		{"split approve and backorder", 10, 4, 6, 0, LineStatusPartiallyApproved},
		{"split approve and reject", 10, 7, 0, 3, LineStatusPartiallyApproved},
		{"three way split", 10, 5, 3, 2, LineStatusPartiallyApproved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveLineStatus(tc.requested, tc.approved, tc.backorder, tc.rejected)
			if got != tc.want {
				t.Errorf("DeriveLineStatus(%d, %d, %d, %d) = %q, want %q",
					tc.requested, tc.approved, tc.backorder, tc.rejected, got, tc.want)
			}
		})
	}
}
