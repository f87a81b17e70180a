package api

import (
	"github.com/JaimeStill/iris/internal/chat"
	"github.com/JaimeStill/iris/internal/detections"
	"github.com/JaimeStill/iris/internal/patients"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Patients   patients.System
	Detections detections.System
	Chat       chat.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, historyWindow, contextLimit int) *Domain {
	patientsSystem := patients.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	detectionsSystem := detections.New(
		runtime.Database.Connection(),
		patientsSystem,
		runtime.Workflow,
		runtime.Reports,
		runtime.Logger,
		runtime.Pagination,
	)

	engine := chat.NewEngine(
		runtime.Generator,
		runtime.Knowledge,
		nil,
		historyWindow,
		runtime.Logger,
	)

	return &Domain{
		Patients:   patientsSystem,
		Detections: detectionsSystem,
		Chat:       chat.New(runtime.Database.Connection(), engine, contextLimit, runtime.Logger),
	}
}
