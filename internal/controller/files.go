package controller

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/npratt/splitclock/internal/events"
	"github.com/npratt/splitclock/internal/report"
	"github.com/npratt/splitclock/internal/runstate"
	"github.com/npratt/splitclock/internal/template"
	"github.com/npratt/splitclock/internal/timer"
)

// Startup sources reported by LoadStartupTemplate.
const (
	SourceExplicit = "flag"
	SourcePointer  = "last template"
	SourceLibrary  = "library"
	SourceBuiltin  = "built-in"
)

// LoadStartupTemplate loads the first template. It tries explicit, then the
// last-template pointer, then the library entry named by
// template.default_name, and finally the built-in default splits. It
// returns which of those was used.
func (c *Controller) LoadStartupTemplate(explicit string) (string, error) {
	if explicit != "" {
		if err := c.ImportTemplate(explicit); err != nil {
			return "", err
		}
		return SourceExplicit, nil
	}

	if last, ok, err := c.pointer.Read(); err != nil {
		c.logger.Warn("read last template pointer", "path", c.pointer.Path(), "error", err)
	} else if ok {
		if err := c.ImportTemplate(last); err == nil {
			return SourcePointer, nil
		}
	} else if last != "" {
		c.logger.Info("last template no longer exists", "path", last)
	}

	name := c.cfg.Template.DefaultName
	names, err := c.library.Ensure(name, c.cfg.Template.DefaultSplits)
	if err != nil {
		c.logger.Warn("template library unavailable", "path", c.library.Path(), "error", err)
		c.replace(name, c.cfg.Template.DefaultSplits, "")
		return SourceBuiltin, nil
	}
	c.replace(name, names, "")
	return SourceLibrary, nil
}

func (c *Controller) replace(label string, names []string, path string) {
	splits := make([]timer.Split, len(names))
	for i, n := range names {
		splits[i] = timer.NewSplit(n)
	}
	c.run.Replace(label, splits)
	c.templatePath = path
}

// ImportTemplate replaces the splits with the template at path, resets the
// run and records path as the last used template. On error the run is left
// untouched.
func (c *Controller) ImportTemplate(path string) error {
	tpl, err := template.Load(path)
	if err != nil {
		c.fail("import template", err)
		return err
	}

	label := template.LabelFor(path)
	c.run.Replace(label, tpl.Splits())
	c.templatePath = path
	c.remember(path)

	c.emit(&events.TemplateEvent{
		BaseEvent: events.NewBase(events.EventTemplateImport, events.SourceFile, c.now()),
		Path:      path,
		Label:     label,
		Splits:    len(tpl.Entries),
		Legacy:    tpl.Format == template.FormatLegacy,
	})
	c.logger.Info("template imported", "path", path, "label", label, "splits", len(tpl.Entries))
	return nil
}

// ExportTemplate writes the split names and best segments to path and
// records it as the last used template.
func (c *Controller) ExportTemplate(path string) error {
	splits := c.run.Splits()
	if err := template.Save(path, template.FromSplits(splits)); err != nil {
		c.fail("export template", err)
		return err
	}
	c.templatePath = path
	c.remember(path)

	c.emit(&events.TemplateEvent{
		BaseEvent: events.NewBase(events.EventTemplateExport, events.SourceFile, c.now()),
		Path:      path,
		Label:     c.run.Label(),
		Splits:    len(splits),
	})
	c.logger.Info("template exported", "path", path, "splits", len(splits))
	return nil
}

func (c *Controller) remember(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := c.pointer.Write(abs); err != nil {
		c.logger.Warn("record last template", "path", c.pointer.Path(), "error", err)
	}
}

// UpdateBests syncs the template file's best segments with this run's
// segment times. An empty path uses the template the run came from.
func (c *Controller) UpdateBests(path string) (bool, error) {
	if path == "" {
		path = c.templatePath
	}
	if path == "" {
		return false, ErrNoTemplate
	}
	updated, err := template.UpdateBestSegments(path, c.run.SegmentTimes())
	if err != nil {
		c.fail("update best segments", err)
		return false, err
	}
	c.emit(&events.TemplateEvent{
		BaseEvent: events.NewBase(events.EventTemplateBests, events.SourceFile, c.now()),
		Path:      path,
		Label:     c.run.Label(),
		Splits:    c.run.Len(),
		Updated:   updated,
	})
	c.logger.Info("best segments synced", "path", path, "updated", updated)
	return updated, nil
}

// SaveRun writes the run state file.
func (c *Controller) SaveRun() error {
	if err := c.store.Save(c.run.Snapshot()); err != nil {
		c.fail("save run", err)
		return err
	}
	c.emit(&events.FileEvent{
		BaseEvent: events.NewBase(events.EventStateSave, events.SourceFile, c.now()),
		Path:      c.store.Path(),
		Label:     c.run.Label(),
	})
	c.logger.Info("run saved", "path", c.store.Path(), "elapsed", c.run.Elapsed())
	return nil
}

// LoadRun replaces the run with the saved run state. The loaded run is
// stopped. The current template stays attached only when its label matches
// the loaded run's. A missing file returns runstate.ErrNoSavedRun.
func (c *Controller) LoadRun() error {
	snap, err := c.store.Load()
	if err != nil {
		if errors.Is(err, runstate.ErrNoSavedRun) {
			c.logger.Info("no saved run", "path", c.store.Path())
			return err
		}
		c.fail("load run", err)
		return err
	}
	c.run.Restore(snap)
	if c.templatePath != "" && template.LabelFor(c.templatePath) != snap.Label {
		// The loaded splits came from another template
		c.logger.Info("template detached from loaded run", "template", c.templatePath, "label", snap.Label)
		c.templatePath = ""
	}
	c.emit(&events.FileEvent{
		BaseEvent: events.NewBase(events.EventStateLoad, events.SourceFile, c.now()),
		Path:      c.store.Path(),
		Label:     snap.Label,
	})
	c.logger.Info("run loaded", "path", c.store.Path(), "label", snap.Label, "index", snap.CurrentIndex)
	return nil
}

// ExportCSV writes the results report. An empty path writes a timestamped
// file under the reports directory. It returns the path written.
func (c *Controller) ExportCSV(path string) (string, error) {
	at := c.now()
	if path == "" {
		path = filepath.Join(c.paths.Reports, report.DefaultFilename(c.run.Label(), at))
	}
	c.run.Tick()
	if err := report.Export(path, c.run.Label(), at, c.run.Splits()); err != nil {
		c.fail("export csv", err)
		return "", err
	}
	c.lastReport = path
	c.emit(&events.FileEvent{
		BaseEvent: events.NewBase(events.EventReportExport, events.SourceFile, at),
		Path:      path,
		Label:     c.run.Label(),
	})
	c.logger.Info("report exported", "path", path)
	return path, nil
}

// ReportCSV renders the results report in memory.
func (c *Controller) ReportCSV() ([]byte, error) {
	c.run.Tick()
	return report.Bytes(c.run.Label(), c.now(), c.run.Splits())
}

// HasSavedRun reports whether a run state file exists.
func (c *Controller) HasSavedRun() bool {
	_, err := os.Stat(c.store.Path())
	return err == nil
}
