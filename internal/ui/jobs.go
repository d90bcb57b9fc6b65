package ui

import (
	"errors"
	"fmt"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
	"github.com/atomicstack/hipparchia-console/internal/logging"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	"github.com/atomicstack/hipparchia-console/internal/render"
	tea "github.com/charmbracelet/bubbletea"
)

type jobDoneMsg struct {
	job     *jobs.Job
	payload hipparchia.Payload
	err     error
}

func awaitJobCmd(d *jobs.Dispatcher, job *jobs.Job) tea.Cmd {
	return func() tea.Msg {
		payload, err := d.Await(job.Context(), job)
		return jobDoneMsg{job: job, payload: payload, err: err}
	}
}

func (m *Model) handleJobRequestMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(menu.JobRequest)
	if !ok {
		return nil
	}
	m.stopLoading()
	if m.jobs == nil {
		m.errMsg = "not connected"
		return nil
	}
	job, err := m.jobs.Start(m.bus.Context(), req.Request)
	if err != nil {
		if errors.Is(err, jobs.ErrJobInFlight) {
			m.errMsg = "A job is already running (ctrl+x abandons it)."
			return nil
		}
		logging.Error(err)
		m.errMsg = err.Error()
		return nil
	}
	label := req.Label
	if label == "" {
		label = string(job.Kind)
	}
	m.running = job
	m.history.Add(menu.JobEntry{
		ID:      job.ID,
		Kind:    job.Kind,
		Label:   label,
		Request: req.Request,
		Started: job.Started,
	})
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("Started %s job %s", job.Kind, job.ID))
	return tea.Batch(m.spinner.Tick, awaitJobCmd(m.jobs, job))
}

func (m *Model) handleJobDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(jobDoneMsg)
	if !ok {
		return nil
	}
	job := done.job
	if m.running == job {
		m.running = nil
	}
	m.history.Finish(job.ID, done.err)
	if m.abandoned[job.ID] {
		delete(m.abandoned, job.ID)
		return nil
	}
	if done.err != nil {
		m.errMsg = done.err.Error()
		return nil
	}
	if job.Kind == hipparchia.KindLexicalLookup {
		m.renderer.RenderLexical(done.payload)
		m.results.show(render.PaneLexical)
	} else {
		m.jobs.Deliver(job, done.payload)
		m.results.show(render.PaneResults)
	}
	m.forceClearInfo()
	m.focusResults()
	return nil
}

func (m *Model) abandonJob() {
	if m.jobs == nil {
		return
	}
	job := m.jobs.Abandon()
	if job == nil {
		m.setInfo("No job is running.")
		return
	}
	m.abandoned[job.ID] = true
	if m.running == job {
		m.running = nil
	}
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("Abandoned %s job %s", job.Kind, job.ID))
}
