package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Given a fresh recorder", t, func() {
		r := NewRecorder()

		Convey("When an allocation run and attendance events are recorded", func() {
			r.ApplicantsRegistered(5)
			r.AllocationCompleted(3)
			r.Delivered()
			r.Absent(AbsenceRescheduled)
			r.Absent(AbsenceRemoved)
			r.Absent(AbsenceRemoved)
			r.SetPool(2, 7, 4)

			Convey("Then the counters reflect them", func() {
				So(testutil.ToFloat64(r.applicantsRegistered), ShouldEqual, 5)
				So(testutil.ToFloat64(r.assignmentsCreated), ShouldEqual, 3)
				So(testutil.ToFloat64(r.deliveries), ShouldEqual, 1)
				So(testutil.ToFloat64(r.absences.WithLabelValues(AbsenceRescheduled)), ShouldEqual, 1)
				So(testutil.ToFloat64(r.absences.WithLabelValues(AbsenceRemoved)), ShouldEqual, 2)
			})

			Convey("Then the gauges hold the latest pool sizes", func() {
				So(testutil.ToFloat64(r.resources.WithLabelValues("available")), ShouldEqual, 2)
				So(testutil.ToFloat64(r.resources.WithLabelValues("assigned")), ShouldEqual, 7)
				So(testutil.ToFloat64(r.pending), ShouldEqual, 4)
			})

			Convey("Then the registry exposes every family", func() {
				count, err := testutil.GatherAndCount(r.Registry())
				So(err, ShouldBeNil)
				So(count, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the registry is written as a textfile", func() {
			r.AllocationCompleted(2)
			path := filepath.Join(t.TempDir(), "device_loans.prom")

			err := r.WriteTextfile(path)

			Convey("Then the file contains the metrics", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "device_loans_assignments_created_total 2")
				So(string(data), ShouldContainSubstring, "device_loans_allocation_batch_size_bucket")
			})
		})

		Convey("When a later command writes the same textfile", func() {
			path := filepath.Join(t.TempDir(), "device_loans.prom")
			r.Delivered()
			So(r.WriteTextfile(path), ShouldBeNil)

			next := NewRecorder()
			next.SetPool(1, 3, 0)
			err := next.WriteTextfile(path)

			Convey("Then the counters only hold that command's events and the gauges the pool", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "device_loans_deliveries_total 0")
				So(string(data), ShouldContainSubstring, `device_loans_resources{state="assigned"} 3`)
			})
		})
	})
}
