package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quasar/launchcore/internal/config"
	"github.com/quasar/launchcore/internal/fetch"
	"github.com/quasar/launchcore/internal/identity"
	"github.com/quasar/launchcore/internal/instance"
	"github.com/quasar/launchcore/internal/launch"
	"github.com/quasar/launchcore/internal/meta"
	"github.com/quasar/launchcore/internal/plan"
	"github.com/quasar/launchcore/internal/platform"
	"github.com/quasar/launchcore/internal/request"
	"github.com/quasar/launchcore/internal/resolve"
)

// Palette matches the teacher's internal/ui/styles.go violet theme.
var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")).Bold(true)
	busyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
)

type stepDoneMsg struct {
	result resolve.SearchResult
	err    error
}

type launchDoneMsg struct {
	exitCode int
	err      error
}

type launchModel struct {
	cfg      *config.Config
	uid      string
	version  string
	username string
	host     platform.OS

	resolver *resolve.Resolver
	fetcher  *fetch.Client
	spinner  spinner.Model

	instMgr *instance.Manager
	inst    *instance.Instance

	manifests  map[string]*meta.Manifest
	primaryUID string

	status string
	done   bool
	err    error
}

func newLaunchModel(cfg *config.Config, uid, version, username string) launchModel {
	host := platform.Host()
	planCfg := plan.Config{
		LibrariesDir:  cfg.LibrariesDir,
		AssetsDir:     cfg.AssetsDir,
		AssetsBaseURL: cfg.AssetsBaseURL,
	}
	r := resolve.New(cfg.BaseURL, host, planCfg)
	r.Search(resolve.Wants{UID: uid, Version: version})

	s := spinner.New()
	s.Style = busyStyle

	instMgr := instance.NewManager(cfg.DataDir)
	_ = instMgr.Load()
	inst, ok := instMgr.Get(uid)
	if !ok {
		inst = &instance.Instance{
			ID:         uid,
			Name:       uid,
			PrimaryUID: uid,
			Version:    version,
			Window:     instance.Window{Width: 854, Height: 480},
		}
		if err := instMgr.Create(inst); err != nil {
			return launchModel{err: err, status: "failed to create instance profile", done: true}
		}
	} else {
		inst.Version = version
	}

	return launchModel{
		cfg:      cfg,
		uid:      uid,
		version:  version,
		username: username,
		host:     host,
		resolver: r,
		fetcher:  fetch.New(nil),
		spinner:  s,
		instMgr:  instMgr,
		inst:     inst,
		status:   "starting resolution",
	}
}

func (m launchModel) Init() tea.Cmd {
	if m.err != nil {
		return tea.Quit
	}
	return tea.Batch(m.spinner.Tick, m.step())
}

func (m launchModel) step() tea.Cmd {
	return func() tea.Msg {
		result, err := m.resolver.ContinueSearch()
		if err != nil {
			return stepDoneMsg{err: err}
		}
		if err := satisfy(m.resolver, m.fetcher, result.Requests); err != nil {
			return stepDoneMsg{err: err}
		}
		return stepDoneMsg{result: result}
	}
}

func (m launchModel) launch() tea.Cmd {
	return func() tea.Msg {
		instDir := m.inst.InstanceDir
		paths := launch.Paths{
			MinecraftDir: instDir,
			LibrariesDir: m.cfg.LibrariesDir,
			AssetsDir:    m.cfg.AssetsDir,
			NativesDir:   filepath.Join(instDir, "natives"),
		}
		jvm := launch.JVMConfig{
			Xms:          m.cfg.Xms,
			Xmx:          m.cfg.Xmx,
			Width:        m.inst.Window.Width,
			Height:       m.inst.Window.Height,
			ExtraJVMOpts: append(append([]string(nil), m.cfg.JVMArgs...), m.inst.JVMArgs...),
		}
		id := identity.NewOffline(m.username)

		p, err := launch.Assemble(m.manifests, m.primaryUID, m.host, paths, jvm, id)
		if err != nil {
			return launchDoneMsg{err: err}
		}

		javaPath := m.inst.JavaPath
		if javaPath == "" {
			javaPath, err = resolveJavaPath(context.Background(), m.cfg)
			if err != nil {
				return launchDoneMsg{err: err}
			}
		}
		proc, err := launch.Spawn(context.Background(), javaPath, p)
		if err != nil {
			return launchDoneMsg{err: err}
		}
		_ = m.instMgr.UpdateLastPlayed(m.inst.ID)
		go io.Copy(os.Stdout, proc.Stdout)
		go io.Copy(os.Stderr, proc.Stderr)

		code, err := proc.Wait()
		if err != nil {
			return launchDoneMsg{err: err}
		}
		return launchDoneMsg{exitCode: code}
	}
}

func (m launchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.done = true
			return m, tea.Quit
		}
		if len(msg.result.Requests) == 0 {
			m.manifests = msg.result.Manifests
			m.primaryUID = msg.result.PrimaryUID
			m.status = "launching"
			return m, m.launch()
		}
		m.status = fmt.Sprintf("resolving… %d request(s) pending", len(msg.result.Requests))
		return m, m.step()

	case launchDoneMsg:
		m.done = true
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.status = fmt.Sprintf("exited with code %d", msg.exitCode)
		return m, tea.Quit
	}
	return m, nil
}

func (m launchModel) View() string {
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n"
	}
	if m.done {
		return okStyle.Render(m.status) + "\n"
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.status)
}

// satisfy downloads every request in reqs: file-backed requests (library
// jars, assets) are batched through the fetcher's worker pool since
// nothing needs their bytes back; metadata requests are fetched one at a
// time and routed into the resolver's LoadData before the next
// ContinueSearch call can use them.
func satisfy(r *resolve.Resolver, c *fetch.Client, reqs []request.DownloadRequest) error {
	var files, metadata []request.DownloadRequest
	for _, req := range reqs {
		if req.IsFile() {
			files = append(files, req)
		} else {
			metadata = append(metadata, req)
		}
	}

	for _, result := range c.FetchAll(context.Background(), files) {
		if result.Err != nil {
			return result.Err
		}
	}

	for _, req := range metadata {
		data, err := c.FetchBytes(context.Background(), req)
		if err != nil {
			return err
		}
		if err := r.LoadData(req.Type, data, req.Ctx); err != nil {
			return err
		}
	}
	return nil
}
