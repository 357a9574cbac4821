package agency_test

import (
	"testing"

	"github.com/okian/debut/internal/domain/agency"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPredefined(t *testing.T) {
	Convey("Given the predefined catalogue", t, func() {
		list := agency.Predefined()

		Convey("Then it should list five agencies", func() {
			So(list, ShouldHaveLength, 5)
			So(list[0].Name, ShouldEqual, "Stellar Talent")
		})

		Convey("And callers should not be able to alter it", func() {
			list[0].Name = "changed"
			So(agency.Predefined()[0].Name, ShouldEqual, "Stellar Talent")
		})
	})
}

func TestFind(t *testing.T) {
	Convey("Given a lookup by name", t, func() {
		Convey("When the name matches ignoring case", func() {
			a, ok := agency.Find("  galaxy stars ")
			So(ok, ShouldBeTrue)
			So(a.Name, ShouldEqual, "Galaxy Stars")
			So(a.Info().IsCustom, ShouldBeFalse)
		})

		Convey("When the name is unknown", func() {
			_, ok := agency.Find("Moonlight")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestMerge(t *testing.T) {
	Convey("Given local and remote lists with overlap", t, func() {
		local := []agency.Agency{{Name: "A"}, {Name: "B"}}
		remote := []agency.Agency{{Name: "b"}, {Name: "C"}, {Name: ""}}

		merged := agency.Merge(local, remote)

		Convey("Then duplicates and blank names should be dropped, local first", func() {
			So(merged, ShouldResemble, []agency.Agency{{Name: "A"}, {Name: "B"}, {Name: "C"}})
		})
	})
}
