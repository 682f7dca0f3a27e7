// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

// Package templating renders task fields such as session ids and code blocks before a task runs.
// Templates use text/template syntax with the sprig function set, e.g. "{{ .ds }}" or
// "{{ .params.table | upper }}".
package templating

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/araddon/dateparse"

	"github.com/featureform/athenaspark/fferr"
)

type Context struct {
	LogicalDate time.Time
	RunID       string
	Params      map[string]interface{}
}

func NewContext(logicalDate time.Time, runID string, params map[string]interface{}) Context {
	if params == nil {
		params = map[string]interface{}{}
	}
	return Context{
		LogicalDate: logicalDate.UTC(),
		RunID:       runID,
		Params:      params,
	}
}

// ParseLogicalDate accepts the date formats schedulers commonly hand out ("2024-03-05",
// "2024-03-05T10:00:00+00:00", "2024/03/05 10:00"). Dates without a zone are read as UTC. An empty
// string means now.
func ParseLogicalDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Now().UTC(), nil
	}
	parsed, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		wrapped := fferr.NewInvalidArgumentError(err)
		wrapped.AddDetail("logical_date", value)
		return time.Time{}, wrapped
	}
	return parsed.UTC(), nil
}

// Data is what templates see as their dot.
func (c Context) Data() map[string]interface{} {
	params := c.Params
	if params == nil {
		params = map[string]interface{}{}
	}
	return map[string]interface{}{
		"ds":        c.LogicalDate.Format("2006-01-02"),
		"ds_nodash": c.LogicalDate.Format("20060102"),
		"ts":        c.LogicalDate.Format(time.RFC3339),
		"run_id":    c.RunID,
		"params":    params,
	}
}

// Render fills in one templated field. Text without template actions is returned unchanged.
func Render(field, text string, ctx Context) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New(field).
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(text)
	if err != nil {
		return "", invalidTemplate(field, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx.Data()); err != nil {
		return "", invalidTemplate(field, err)
	}
	return buf.String(), nil
}

// RenderAll renders every field in place, stopping at the first failure.
func RenderAll(fields map[string]*string, ctx Context) error {
	for name, value := range fields {
		if value == nil {
			continue
		}
		rendered, err := Render(name, *value, ctx)
		if err != nil {
			return err
		}
		*value = rendered
	}
	return nil
}

func invalidTemplate(field string, err error) error {
	wrapped := fferr.NewInvalidArgumentError(err)
	wrapped.AddDetail("template_field", field)
	return wrapped
}
