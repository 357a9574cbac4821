package service_test

import (
	"context"
	"testing"

	"github.com/okian/debut/internal/adapters/mq/queue"
	"github.com/okian/debut/internal/adapters/mq/worker"
	"github.com/okian/debut/internal/adapters/remote"
	"github.com/okian/debut/internal/adapters/repository"
	service "github.com/okian/debut/internal/app"
	"github.com/okian/debut/internal/domain/game"
	"github.com/okian/debut/internal/domain/model"
	"github.com/okian/debut/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type refusingOutbox struct {
	offered []model.SyncTask
}

func (r *refusingOutbox) Enqueue(_ context.Context, t model.SyncTask) bool {
	r.offered = append(r.offered, t)
	return false
}

func TestService_Outbox(t *testing.T) {
	Convey("Given a service syncing through an outbox", t, func() {
		ctx := context.Background()
		rc := &fakeRemote{profile: &remote.Profile{Name: "Mina"}}
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		svc := newStarted(repository.NewMemoryKV(0), service.WithRemote(rc), service.WithOutbox(q))

		Convey("When an agency is chosen and a performance submitted", func() {
			_, err := svc.UpdateAgency(ctx, game.AgencyInfo{Name: "Nova Creations"})
			So(err, ShouldBeNil)
			_, err = svc.SubmitPerformance(ctx, validSubmission())
			So(err, ShouldBeNil)

			Convey("Then nothing should reach the remote until the outbox drains", func() {
				So(q.Len(), ShouldEqual, 2)
				So(rc.selected, ShouldBeEmpty)
				So(rc.saved, ShouldBeEmpty)

				pool := worker.NewPool(1, q, remote.NewSyncer(rc), worker.WithLogger(logger.Nop()))
				pool.Start(ctx)
				So(pool.Shutdown(ctx), ShouldBeNil)

				So(rc.selected, ShouldResemble, []string{"Nova Creations"})
				So(rc.saved, ShouldHaveLength, 1)
				So(*rc.saved[0].LastPlayed, ShouldEqual, fixedNow.UnixMilli())
			})
		})

		Convey("When the outbox is closed", func() {
			So(q.Close(), ShouldBeNil)
			_, err := svc.UpdateAgency(ctx, game.AgencyInfo{Name: "My Label", IsCustom: true})

			Convey("Then the local change should still succeed", func() {
				So(err, ShouldBeNil)
				state, _ := svc.State()
				So(state.Agency.Name, ShouldEqual, "My Label")
				So(rc.created, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an outbox that refuses every task", t, func() {
		ctx := context.Background()
		rc := &fakeRemote{}
		out := &refusingOutbox{}
		svc := newStarted(repository.NewMemoryKV(0), service.WithRemote(rc), service.WithOutbox(out))

		Convey("When a custom agency is created", func() {
			_, err := svc.UpdateAgency(ctx, game.AgencyInfo{Name: "My Label", Description: "indie", IsCustom: true})

			Convey("Then the task should be offered with its payload and then dropped", func() {
				So(err, ShouldBeNil)
				So(out.offered, ShouldHaveLength, 1)
				task := out.offered[0]
				So(task.Op, ShouldEqual, model.SyncCreateAgency)
				So(task.Agency, ShouldEqual, "My Label")
				So(task.Description, ShouldEqual, "indie")
				So(task.ID, ShouldNotBeEmpty)
				So(task.Enqueued, ShouldEqual, fixedNow)
				So(rc.created, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an outbox but no remote collaborator", t, func() {
		out := &refusingOutbox{}
		svc := newStarted(repository.NewMemoryKV(0), service.WithOutbox(out))

		Convey("Then no tasks should be produced", func() {
			_, err := svc.SubmitPerformance(context.Background(), validSubmission())
			So(err, ShouldBeNil)
			So(out.offered, ShouldBeEmpty)
		})
	})
}
