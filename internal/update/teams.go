package update

import (
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/zen/internal/api"
	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/stats"
	"github.com/sandeepkv93/zen/internal/views"
)

func (m Model) handleProjectsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Projects.Cursor < len(m.Projects.Items)-1 {
			m.Projects.Cursor++
		}
	case "k", "up":
		if m.Projects.Cursor > 0 {
			m.Projects.Cursor--
		}
	case "r":
		cmd := m.loadProjectsCmd()
		return m, cmd
	}
	return m, nil
}

func (m *Model) loadProjectsCmd() tea.Cmd {
	client := m.deps.Client
	if client == nil || !m.SignedIn {
		return nil
	}
	m.reqs.reset(ScreenProjects)
	ctx, gen := m.reqs.begin(ScreenProjects)
	m.Projects.Loading = true
	return func() tea.Msg {
		items, err := client.ListProjects(ctx)
		return ProjectsMsg{Gen: gen, Items: items, Err: err}
	}
}

func (m Model) onProjects(msg ProjectsMsg) (tea.Model, tea.Cmd) {
	if !m.reqs.current(ScreenProjects, msg.Gen) {
		return m, nil
	}
	m.Projects.Loading = false
	if msg.Err != nil {
		log.Printf("zen: list projects: %v", msg.Err)
		text := errText(msg.Err, "Failed to fetch projects")
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	m.Projects.Items = msg.Items
	m.Projects.Loaded = true
	if m.Projects.Cursor >= len(msg.Items) {
		m.Projects.Cursor = max(len(msg.Items)-1, 0)
	}
	return m, nil
}

func (m Model) renderProjectsView() string {
	if !m.SignedIn {
		return "projects:\nSign in to see your projects."
	}
	rows := make([]views.ProjectRow, 0, len(m.Projects.Items))
	for _, p := range m.Projects.Items {
		r := projectRow(p)
		rows = append(rows, views.ProjectRow{
			Name:        r[0],
			Status:      r[1],
			Progress:    r[2],
			Due:         r[3],
			Description: deref(p.Description),
		})
	}
	return views.RenderProjectsPanel(views.ProjectsPanelData{
		TableView: m.projectsTable.View(),
		Projects:  rows,
		Cursor:    m.Projects.Cursor,
		Loading:   m.Projects.Loading && !m.Projects.Loaded,
	})
}

func (m Model) handleTeamsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Teams.Cursor < len(m.Teams.Items)-1 {
			m.Teams.Cursor++
		}
	case "k", "up":
		if m.Teams.Cursor > 0 {
			m.Teams.Cursor--
		}
	case "r":
		cmd := m.loadTeamsCmd()
		return m, cmd
	case "enter":
		if m.Teams.Cursor < len(m.Teams.Items) {
			return m.openTeam(m.Teams.Items[m.Teams.Cursor])
		}
	}
	return m, nil
}

func (m *Model) loadTeamsCmd() tea.Cmd {
	client := m.deps.Client
	if client == nil || !m.SignedIn {
		return nil
	}
	m.reqs.reset(ScreenTeams)
	ctx, gen := m.reqs.begin(ScreenTeams)
	m.Teams.Loading = true
	return func() tea.Msg {
		items, err := client.ListTeams(ctx)
		return TeamsMsg{Gen: gen, Items: items, Err: err}
	}
}

func (m Model) onTeams(msg TeamsMsg) (tea.Model, tea.Cmd) {
	if !m.reqs.current(ScreenTeams, msg.Gen) {
		return m, nil
	}
	m.Teams.Loading = false
	if msg.Err != nil {
		log.Printf("zen: list teams: %v", msg.Err)
		text := errText(msg.Err, "Failed to fetch teams")
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	m.Teams.Items = msg.Items
	m.Teams.Loaded = true
	if m.Teams.Cursor >= len(msg.Items) {
		m.Teams.Cursor = max(len(msg.Items)-1, 0)
	}
	return m, nil
}

func (m Model) renderTeamsView() string {
	if !m.SignedIn {
		return "teams:\nSign in to see your teams."
	}
	rows := make([]views.TeamRow, 0, len(m.Teams.Items))
	for _, t := range m.Teams.Items {
		rows = append(rows, views.TeamRow{ID: t.ID, Name: t.Name, Description: deref(t.Description)})
	}
	return views.RenderTeamsPanel(views.TeamsPanelData{
		ListView: m.teamsList.View(),
		Teams:    rows,
		Cursor:   m.Teams.Cursor,
		Loading:  m.Teams.Loading && !m.Teams.Loaded,
	})
}

// openTeam shows a team's roster and sprint. Both loads run in the
// team-detail scope so leaving the screen drops them.
func (m Model) openTeam(team model.Team) (tea.Model, tea.Cmd) {
	client := m.deps.Client
	m.reqs.reset(ScreenTeams)
	m.CurrentScreen = ScreenTeamDetail
	m.TeamDetail = TeamDetailState{Team: team, Loading: client != nil}
	if client == nil {
		return m, nil
	}
	m.reqs.reset(ScreenTeamDetail)
	ctx, gen := m.reqs.begin(ScreenTeamDetail)
	id := team.ID
	return m, tea.Batch(
		func() tea.Msg {
			members, err := client.GetTeamMembers(ctx, id)
			return TeamMembersMsg{Gen: gen, TeamID: id, Members: members, Err: err}
		},
		func() tea.Msg {
			dash, err := client.SprintDashboard(ctx, id)
			return SprintMsg{Gen: gen, TeamID: id, Dashboard: dash, Err: err}
		},
	)
}

func (m Model) teamDetailCurrent(gen uint64, teamID int64) bool {
	return m.CurrentScreen == ScreenTeamDetail && m.reqs.current(ScreenTeamDetail, gen) && m.TeamDetail.Team.ID == teamID
}

func (m Model) onTeamMembers(msg TeamMembersMsg) (tea.Model, tea.Cmd) {
	if !m.teamDetailCurrent(msg.Gen, msg.TeamID) {
		return m, nil
	}
	m.TeamDetail.Loading = false
	if msg.Err != nil {
		log.Printf("zen: team %d members: %v", msg.TeamID, msg.Err)
		m.Status = StatusBar{Text: "Failed to fetch team members", IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	m.TeamDetail.Members = msg.Members
	if m.TeamDetail.Cursor >= len(msg.Members) {
		m.TeamDetail.Cursor = max(len(msg.Members)-1, 0)
	}
	return m, nil
}

func (m Model) onSprint(msg SprintMsg) (tea.Model, tea.Cmd) {
	if !m.teamDetailCurrent(msg.Gen, msg.TeamID) {
		return m, nil
	}
	if msg.Err != nil {
		log.Printf("zen: team %d sprint: %v", msg.TeamID, msg.Err)
		m.Status = StatusBar{Text: "Failed to fetch sprint dashboard", IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	dash := msg.Dashboard
	m.TeamDetail.Sprint = &dash
	return m, nil
}

func (m Model) handleTeamDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		return m.switchScreen(ScreenTeams)
	case "j", "down":
		if m.TeamDetail.Cursor < len(m.TeamDetail.Members)-1 {
			m.TeamDetail.Cursor++
			m.TeamDetail.Member = nil
		}
	case "k", "up":
		if m.TeamDetail.Cursor > 0 {
			m.TeamDetail.Cursor--
			m.TeamDetail.Member = nil
		}
	case "r":
		return m.openTeam(m.TeamDetail.Team)
	case "d", "enter":
		if m.TeamDetail.Cursor < len(m.TeamDetail.Members) {
			return m.loadMemberDashboard(m.TeamDetail.Members[m.TeamDetail.Cursor].UserID)
		}
	case "a":
		return m.openAddMember()
	}
	return m, nil
}

func (m Model) loadMemberDashboard(userID int64) (tea.Model, tea.Cmd) {
	client := m.authorizedClient()
	if client == nil {
		m.Status = StatusBar{Text: "Authentication required", IsError: true}
		return m, nil
	}
	ctx, gen := m.reqs.begin(ScreenTeamDetail)
	teamID := m.TeamDetail.Team.ID
	return m.beginBusy(func() tea.Msg {
		resp, err := client.MemberDashboard(ctx, userID, &teamID)
		return MemberDashboardMsg{Gen: gen, TeamID: &teamID, Dashboard: resp.MemberDashboard, Err: err}
	})
}

// onMemberDashboard serves both the team detail pane (TeamID set) and the
// profile screen.
func (m Model) onMemberDashboard(msg MemberDashboardMsg) (tea.Model, tea.Cmd) {
	if msg.TeamID == nil {
		return m.onProfileDashboard(msg)
	}
	m.endBusy()
	if !m.teamDetailCurrent(msg.Gen, *msg.TeamID) {
		return m, nil
	}
	if msg.Err != nil {
		log.Printf("zen: member dashboard: %v", msg.Err)
		m.Status = StatusBar{Text: errText(msg.Err, "Failed to fetch member dashboard"), IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	dash := msg.Dashboard
	m.TeamDetail.Member = &dash
	return m, nil
}

func (m Model) openAddMember() (tea.Model, tea.Cmd) {
	client := m.deps.Client
	if client == nil || !m.SignedIn {
		m.Status = StatusBar{Text: "Authentication required", IsError: true}
		return m, nil
	}
	m.TeamDetail.AddMember = AddMemberState{Active: true}
	ctx, gen := m.reqs.begin(ScreenTeamDetail)
	return m, func() tea.Msg {
		users, err := client.ListUsers(ctx)
		return UsersMsg{Gen: gen, Users: users, Err: err}
	}
}

func (m Model) onUsers(msg UsersMsg) (tea.Model, tea.Cmd) {
	if !m.reqs.current(ScreenTeamDetail, msg.Gen) || !m.TeamDetail.AddMember.Active {
		return m, nil
	}
	if msg.Err != nil {
		log.Printf("zen: list users: %v", msg.Err)
		m.Status = StatusBar{Text: "Failed to fetch users", IsError: true}
		m.notify("Error", m.Status.Text, "error")
		return m, nil
	}
	members := make(map[int64]bool, len(m.TeamDetail.Members))
	for _, mem := range m.TeamDetail.Members {
		members[mem.UserID] = true
	}
	users := make([]model.User, 0, len(msg.Users))
	for _, u := range msg.Users {
		if !members[u.ID] {
			users = append(users, u)
		}
	}
	m.TeamDetail.AddMember.Users = users
	m.TeamDetail.AddMember.Cursor = 0
	return m, nil
}

func (m Model) handleAddMemberKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	am := &m.TeamDetail.AddMember
	switch msg.String() {
	case "esc":
		*am = AddMemberState{}
	case "j", "down":
		if am.Cursor < len(am.Users)-1 {
			am.Cursor++
		}
	case "k", "up":
		if am.Cursor > 0 {
			am.Cursor--
		}
	case "tab":
		am.Role = (am.Role + 1) % len(memberRoles)
	case "shift+tab":
		am.Role = (am.Role + len(memberRoles) - 1) % len(memberRoles)
	case "enter":
		if am.Cursor >= len(am.Users) {
			m.Status = StatusBar{Text: "Please select both user and role", IsError: true}
			m.notify("Error", m.Status.Text, "error")
			return m, nil
		}
		return m.addMember(am.Users[am.Cursor].ID, memberRoles[am.Role])
	}
	return m, nil
}

func (m Model) addMember(userID int64, role string) (tea.Model, tea.Cmd) {
	client := m.deps.Client
	if client == nil {
		return m, nil
	}
	ctx, gen := m.reqs.begin(ScreenTeamDetail)
	teamID := m.TeamDetail.Team.ID
	return m.beginBusy(func() tea.Msg {
		return MemberAddedMsg{Gen: gen, TeamID: teamID, Err: client.JoinTeam(ctx, teamID, userID, role)}
	})
}

func (m Model) onMemberAdded(msg MemberAddedMsg) (tea.Model, tea.Cmd) {
	m.endBusy()
	if !m.teamDetailCurrent(msg.Gen, msg.TeamID) {
		return m, nil
	}
	if msg.Err != nil {
		log.Printf("zen: add member to team %d: %v", msg.TeamID, msg.Err)
		text := "Failed to add member"
		if d := api.Message(msg.Err); d != "" && isStatusError(msg.Err) {
			text = d
		}
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	m.TeamDetail.AddMember = AddMemberState{}
	m.Status = StatusBar{Text: "Member added successfully"}
	m.notify("Success", m.Status.Text, "info")
	return m.openTeam(m.TeamDetail.Team)
}

// joinTeamCmd joins the signed-in user to a team, as an invitation link does.
func (m Model) joinTeamCmd(teamID int64, role string) tea.Cmd {
	client := m.deps.Client
	if client == nil || m.User == nil || !m.SignedIn {
		return func() tea.Msg { return JoinedMsg{TeamID: teamID, Err: api.ErrNoSession} }
	}
	uid := m.User.ID
	ctx, _ := m.reqs.begin(scopeTasks)
	return func() tea.Msg {
		return JoinedMsg{TeamID: teamID, Err: client.JoinTeam(ctx, teamID, uid, role)}
	}
}

func (m Model) onJoined(msg JoinedMsg) (tea.Model, tea.Cmd) {
	m.endBusy()
	if msg.Err != nil {
		log.Printf("zen: join team %d: %v", msg.TeamID, msg.Err)
		text := errText(msg.Err, "Failed to join team. You might already be a member.")
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Error", text, "error")
		return m, nil
	}
	m.Status = StatusBar{Text: "You have been successfully added to the team!"}
	m.notify("Success!", m.Status.Text, "info")
	if m.CurrentScreen == ScreenTeams {
		cmd := m.loadTeamsCmd()
		return m, cmd
	}
	m.Teams.Loaded = false
	return m, nil
}

func (m Model) renderTeamDetailView() string {
	members := make([]views.MemberRow, 0, len(m.TeamDetail.Members))
	for _, mem := range m.TeamDetail.Members {
		members = append(members, views.MemberRow{
			Name:  mem.User.DisplayName(),
			Email: mem.User.Email,
			Role:  mem.Role,
		})
	}
	var sprint *views.SprintData
	if s := m.TeamDetail.Sprint; s != nil {
		sprint = sprintData(*s)
	}
	am := m.TeamDetail.AddMember
	users := make([]string, 0, len(am.Users))
	for _, u := range am.Users {
		users = append(users, fmt.Sprintf("%s <%s>", u.DisplayName(), u.Email))
	}
	return views.RenderTeamDetail(views.TeamDetailData{
		Name:    m.TeamDetail.Team.Name,
		Members: members,
		Cursor:  m.TeamDetail.Cursor,
		Sprint:  sprint,
		AddMember: views.AddMemberData{
			Active: am.Active,
			Users:  users,
			Cursor: am.Cursor,
			Role:   memberRoles[am.Role],
		},
		Loading: m.TeamDetail.Loading,
	})
}

func sprintData(s model.SprintDashboard) *views.SprintData {
	st := s.SprintStats
	out := &views.SprintData{
		Name:       st.SprintName,
		ScopeCreep: len(s.ScopeCreepTasks),
		Stats: []views.StatItem{
			{Label: "Tasks", Value: fmt.Sprintf("%d/%d done", st.CompletedTasks, st.TotalTasks)},
			{Label: "In progress", Value: fmt.Sprintf("%d", st.InProgressTasks)},
			{Label: "Completion", Value: stats.FormatPercent1(st.SprintCompletionRate)},
			{Label: "Velocity", Value: fmt.Sprintf("%.1f", st.Velocity)},
		},
	}
	if st.StartDate != nil && st.EndDate != nil {
		out.Dates = fmt.Sprintf("%s - %s", stats.FormatDate(st.StartDate.Time), stats.FormatDate(st.EndDate.Time))
	}
	for _, g := range s.TaskGroups {
		out.Groups = append(out.Groups, fmt.Sprintf("%s: %d task(s), %s, %s",
			strings.ReplaceAll(g.Status, "_", " "), len(g.Tasks), stats.FormatHours(g.TotalHours), stats.FormatPercent(g.CompletionPercentage)))
	}
	for _, b := range s.Blockers {
		line := b.Title
		if b.AssigneeFullName != "" {
			line += " (" + b.AssigneeFullName + ")"
		}
		out.Blockers = append(out.Blockers, line)
	}
	return out
}

// renderTeamMemberPane shows the dashboard of the selected member.
func (m Model) renderTeamMemberPane() string {
	d := m.TeamDetail.Member
	if d == nil {
		return ""
	}
	ps := d.PersonalStats
	var b strings.Builder
	name := d.FullName
	if name == "" {
		name = d.Username
	}
	b.WriteString("member: " + name + "\n")
	b.WriteString(fmt.Sprintf("  tasks: %d/%d done, %d in progress, %d overdue\n",
		ps.CompletedTasks, ps.TotalTasks, ps.InProgressTasks, ps.OverdueTasks))
	b.WriteString(fmt.Sprintf("  completion: %s\n", stats.FormatPercent1(ps.CompletionRate)))
	b.WriteString(fmt.Sprintf("  workload: %s\n", stats.FormatHours(ps.CurrentWorkloadHours)))
	if len(d.UpcomingDeadlines) > 0 {
		b.WriteString("  upcoming:\n")
		for _, t := range d.UpcomingDeadlines {
			due := "-"
			if t.DueDate != nil {
				due = t.DueDate.Date()
			}
			b.WriteString(fmt.Sprintf("   - %s (%s)\n", t.Title, due))
		}
	}
	return strings.TrimSpace(b.String())
}
