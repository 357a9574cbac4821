package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSyncTaskValid(t *testing.T) {
	Convey("Given sync tasks", t, func() {
		cases := []struct {
			name string
			task SyncTask
			want bool
		}{
			{"select with agency", SyncTask{Op: SyncSelectAgency, Agency: "Nova Creations"}, true},
			{"select without agency", SyncTask{Op: SyncSelectAgency}, false},
			{"create with agency", SyncTask{Op: SyncCreateAgency, Agency: "Mine", Description: "indie"}, true},
			{"touch with timestamp", SyncTask{Op: SyncTouchProfile, LastPlayed: 1700000000000}, true},
			{"touch without timestamp", SyncTask{Op: SyncTouchProfile}, false},
			{"unknown op", SyncTask{Op: "delete_profile", Agency: "x"}, false},
		}
		for _, c := range cases {
			Convey(c.name, func() {
				So(c.task.Valid(), ShouldEqual, c.want)
			})
		}
	})
}
