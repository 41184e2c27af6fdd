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

// Template IDs
const (
	TemplateWelcome              = "welcome"
	TemplateProjectInvitation    = "project_invitation"
	TemplateTaskAssignment       = "task_assignment"
	TemplateMitigationAssignment = "mitigation_assignment"
	TemplateDeadlineApproaching  = "deadline_approaching"
)

const layoutHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: -apple-system, 'Segoe UI', Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f5f5f5; margin: 0; }
.container { max-width: 600px; margin: 40px auto; background-color: #fff; border-radius: 8px; overflow: hidden; }
.header { background-color: #000; color: #fff; padding: 32px 30px; text-align: center; }
.content { padding: 32px 30px; }
.card { background-color: #f8f9fa; border-radius: 6px; padding: 20px; margin: 20px 0; }
.label { color: #6c757d; width: 100px; display: inline-block; }
.cta { display: inline-block; background-color: #000; color: #fff !important; text-decoration: none; padding: 12px 28px; border-radius: 6px; }
.footer { background-color: #f8f9fa; padding: 20px 30px; text-align: center; font-size: 13px; color: #6c757d; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>SuitX</h1></div>
<div class="content">
`

const layoutFoot = `</div>
<div class="footer"><p>&copy; SuitX. All rights reserved.</p><p>{{.footer}}</p></div>
</div>
</body>
</html>
`

func withLayout(inner string) string {
	return layoutHead + inner + layoutFoot
}

// PredefinedTemplates contains the built-in email templates.
// Every template expects footer and appUrl besides its own variables.
var PredefinedTemplates = []*Template{
	{
		ID:      TemplateWelcome,
		Subject: `Welcome to SuitX!`,
		Content: withLayout(`<h2>Welcome to SuitX, {{.username}}!</h2>
<p>Your account is ready. Start managing your projects with risk insights.</p>
<p><a class="cta" href="{{.appUrl}}/launchpad">Get Started</a></p>
`),
		Variables:   []string{"username"},
		Description: "Sent after registration",
	},
	{
		ID:      TemplateProjectInvitation,
		Subject: `You've been invited to join {{.projectName}}`,
		Content: withLayout(`<h2>Project Invitation</h2>
<p>Hello {{.recipientName}},</p>
<p>You've been invited to collaborate on a project.</p>
<div class="card">
<div><span class="label">Project:</span><strong>{{.projectName}}</strong></div>
<div><span class="label">Invited by:</span><strong>{{.inviterName}}</strong></div>
{{if .message}}<p><em>"{{.message}}"</em></p>{{end}}
</div>
<p>This invitation expires on <strong>{{.expiresAt}}</strong>.</p>
<p><a class="cta" href="{{.appUrl}}/notifications">View Invitation</a></p>
`),
		Variables:   []string{"recipientName", "projectName", "inviterName", "expiresAt"},
		Description: "Sent to the invitee when an invitation is created",
	},
	{
		ID:      TemplateTaskAssignment,
		Subject: `New Task Assigned: {{.title}}`,
		Content: withLayout(`<h2>New Task Assigned</h2>
<p>Hello {{.recipientName}},</p>
<p>You have been assigned to a new task. Here are the details:</p>
<div class="card">
<h3>{{.title}}</h3>
<div><span class="label">Project:</span>{{.projectName}}</div>
<div><span class="label">Priority:</span>{{default "MEDIUM" .priority | upper}}</div>
<div><span class="label">Due Date:</span>{{default "Not set" .dueDate}}</div>
{{if .description}}<p>{{.description}}</p>{{end}}
</div>
<p><a class="cta" href="{{.appUrl}}/launchpad">View Task</a></p>
`),
		Variables:   []string{"recipientName", "title", "projectName"},
		Description: "Sent to the assignee of a task",
	},
	{
		ID:      TemplateMitigationAssignment,
		Subject: `New Mitigation Assigned: {{.title}}`,
		Content: withLayout(`<h2>New Mitigation Assigned</h2>
<p>Hello {{.recipientName}},</p>
<p>You have been assigned to a new mitigation strategy. Here are the details:</p>
<div class="card">
<h3>{{.title}}</h3>
<div><span class="label">Project:</span>{{.projectName}}</div>
<div><span class="label">Priority:</span>{{default "MEDIUM" .priority | upper}}</div>
<div><span class="label">Due Date:</span>{{default "Not set" .dueDate}}</div>
{{if .description}}<p>{{.description}}</p>{{end}}
</div>
<p><a class="cta" href="{{.appUrl}}/mitigations">View Mitigation</a></p>
`),
		Variables:   []string{"recipientName", "title", "projectName"},
		Description: "Sent to the assignee of a mitigation",
	},
	{
		ID:      TemplateDeadlineApproaching,
		Subject: `Deadline approaching: {{.title}}`,
		Content: withLayout(`<h2>Deadline Approaching</h2>
<p>Hello {{.recipientName}},</p>
<p>The task <strong>{{.title}}</strong> in {{.projectName}} is due on <strong>{{.dueDate}}</strong>.</p>
<p><a class="cta" href="{{.appUrl}}/launchpad">Open Task</a></p>
`),
		Variables:   []string{"recipientName", "title", "projectName", "dueDate"},
		Description: "Sent by the deadline scan",
	},
}
