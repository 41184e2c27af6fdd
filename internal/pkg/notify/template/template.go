// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package template

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Template represents an email template
type Template struct {
	ID          string   // Template unique ID
	Subject     string   // Subject, text/template syntax
	Content     string   // HTML body, html/template syntax
	Variables   []string // Required variables
	Description string   // Template description
}

// Rendered 渲染结果
type Rendered struct {
	Subject string
	Body    string
}

// TemplateEngine handles template rendering
type TemplateEngine struct {
	funcMap   map[string]any
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a new template engine preloaded with the predefined templates
func NewTemplateEngine() *TemplateEngine {
	titleCaser := cases.Title(language.English)
	lowerCaser := cases.Lower(language.English)
	funcMap := map[string]any{
		"upper": strings.ToUpper,
		"lower": lowerCaser.String,
		"title": titleCaser.String,
		"trim":  strings.TrimSpace,
		"default": func(def string, v any) string {
			if s := fmt.Sprint(v); v != nil && s != "" {
				return s
			}
			return def
		},
	}

	e := &TemplateEngine{
		funcMap:   funcMap,
		templates: make(map[string]*Template),
	}
	for _, t := range PredefinedTemplates {
		e.templates[t.ID] = t
	}
	return e
}

// Register 注册或覆盖模板
func (e *TemplateEngine) Register(t *Template) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("template id is required")
	}
	if err := e.ValidateTemplate(t); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = t
	return nil
}

func (e *TemplateEngine) Get(id string) (*Template, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.templates[id]
	return t, ok
}

// Render renders subject and body of template id with data
func (e *TemplateEngine) Render(id string, data map[string]any) (*Rendered, error) {
	t, ok := e.Get(id)
	if !ok {
		return nil, fmt.Errorf("template %s not found", id)
	}
	for _, v := range t.Variables {
		if _, ok := data[v]; !ok {
			return nil, fmt.Errorf("template %s: missing variable %s", id, v)
		}
	}

	subject, err := e.renderText(t.Subject, data)
	if err != nil {
		return nil, err
	}
	body, err := e.renderHTML(t.Content, data)
	if err != nil {
		return nil, err
	}
	return &Rendered{Subject: subject, Body: body}, nil
}

func (e *TemplateEngine) renderText(content string, data map[string]any) (string, error) {
	tmpl, err := texttemplate.New("subject").Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse subject template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute subject template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (e *TemplateEngine) renderHTML(content string, data map[string]any) (string, error) {
	tmpl, err := htmltemplate.New("body").Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse body template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute body template: %w", err)
	}
	return buf.String(), nil
}

// ValidateTemplate validates if a template is valid
func (e *TemplateEngine) ValidateTemplate(t *Template) error {
	if _, err := texttemplate.New("subject").Funcs(e.funcMap).Parse(t.Subject); err != nil {
		return err
	}
	_, err := htmltemplate.New("body").Funcs(e.funcMap).Parse(t.Content)
	return err
}
