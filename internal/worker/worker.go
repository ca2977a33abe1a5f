package worker

import (
	"context"

	"prediction-dashboard/internal/broker"
	"prediction-dashboard/internal/models"
	"prediction-dashboard/internal/util"
)

// ChangeHandler reacts to a dashboard change made elsewhere
type ChangeHandler interface {
	HandleChange(ctx context.Context, event *models.DashboardChangedEvent) error
}

// DashboardWorker reloads the local snapshot when another replica mutates data
type DashboardWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewDashboardWorker creates a new dashboard worker
func NewDashboardWorker(consumer *broker.Consumer, handler ChangeHandler) *DashboardWorker {
	return &DashboardWorker{
		consumer:     consumer,
		eventHandler: NewEventHandler(handler),
	}
}

// NewEventHandler wires a ChangeHandler into a broker event handler
func NewEventHandler(handler ChangeHandler) *broker.EventHandler {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnDashboardChanged(handler.HandleChange)
	return eventHandler
}

// Start starts the worker
func (w *DashboardWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("Starting dashboard worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *DashboardWorker) Stop() error {
	util.GetLogger().Info("Stopping dashboard worker")
	return w.consumer.Close()
}
