package navigation

import (
	"strings"
	"testing"

	"ippo/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var owner = platform.User{ID: "100", Username: "jude", AvatarURL: "https://cdn.example/avatar.png"}

func TestNext(t *testing.T) {
	c := testCatalog(t)
	list := Node{Kind: NodeCommandList, Category: "moderation"}
	detail := Node{Kind: NodeCommandDetail, Category: "moderation", Command: "ban"}

	tests := []struct {
		name   string
		from   Node
		in     Input
		want   Node
		closed bool
		err    error
	}{
		{"open catalog", Main, Input{Kind: EventOpenCatalog}, Node{Kind: NodeCategoryList}, false, nil},
		{"pick category", Node{Kind: NodeCategoryList}, Input{Kind: EventPickCategory, Value: "moderation"}, list, false, nil},
		{"pick command", list, Input{Kind: EventPickCommand, Value: "ban"}, detail, false, nil},
		{"switch command", detail, Input{Kind: EventPickCommand, Value: "kick"}, Node{Kind: NodeCommandDetail, Category: "moderation", Command: "kick"}, false, nil},
		{"back from detail", detail, Input{Kind: EventBack}, Main, false, nil},
		{"back on main", Main, Input{Kind: EventBack}, Main, false, nil},
		{"close", list, Input{Kind: EventClose}, list, true, nil},
		{"command without category", Node{Kind: NodeCategoryList}, Input{Kind: EventPickCommand, Value: "ban"}, Node{Kind: NodeCategoryList}, false, ErrCategoryRequired},
		{"command on main", Main, Input{Kind: EventPickCommand, Value: "ban"}, Main, false, ErrCategoryRequired},
		{"unknown category", Node{Kind: NodeCategoryList}, Input{Kind: EventPickCategory, Value: "music"}, Node{Kind: NodeCategoryList}, false, ErrUnknownOption},
		{"command from other category", list, Input{Kind: EventPickCommand, Value: "marry"}, list, false, ErrUnknownOption},
		{"open twice", Node{Kind: NodeCategoryList}, Input{Kind: EventOpenCatalog}, Node{Kind: NodeCategoryList}, false, ErrInvalidTransition},
		{"category from command list", list, Input{Kind: EventPickCategory, Value: "fun"}, list, false, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, closed, err := c.Next(tt.from, tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.closed, closed)
		})
	}
}

func TestRender_Main(t *testing.T) {
	c := testCatalog(t)
	screen := c.Render(Main, owner)

	assert.Equal(t, "Ippo Bot Help Center - Introduction", screen.Title)
	assert.Equal(t, "Requested by "+owner.Tag(), screen.Footer)
	assert.Equal(t, owner.AvatarURL, screen.FooterIcon)
	assert.True(t, screen.Timestamp)
	assert.Equal(t, c.Image, screen.Image)

	require.Len(t, screen.Controls, 1)
	row := screen.Controls[0]
	require.Len(t, row, 3)
	assert.Equal(t, IDOpen, row[0].ID)
	assert.Equal(t, "Commands", row[0].Label)
	assert.Equal(t, platform.ControlLink, row[1].Kind)
	assert.Equal(t, c.SupportURL, row[1].URL)
	assert.Equal(t, IDClose, row[2].ID)
}

func TestRender_MainIsStable(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, c.Render(Main, owner), c.Render(Main, owner))
}

func TestRender_CategoryList(t *testing.T) {
	c := testCatalog(t)
	screen := c.Render(Node{Kind: NodeCategoryList}, owner)

	assert.Equal(t, "Ippo Bot Help Center - Commands", screen.Title)
	require.Len(t, screen.Controls, 2)
	menu := screen.Controls[0][0]
	assert.Equal(t, IDCategory, menu.ID)
	assert.Equal(t, "Choose a command category", menu.Placeholder)
	require.Len(t, menu.Options, 3)
	assert.Equal(t, platform.Option{Label: "Moderation Commands", Value: "moderation"}, menu.Options[0])
	assert.Equal(t, IDBack, screen.Controls[1][0].ID)
}

func TestRender_CommandDetail(t *testing.T) {
	c := testCatalog(t)
	screen := c.Render(Node{Kind: NodeCommandDetail, Category: "moderation", Command: "ban"}, owner)

	assert.Equal(t, "**Command:** ban\n**Description:** Ban a user from the server", screen.Description)
	menu := screen.Controls[0][0]
	assert.Equal(t, "Choose a command from Moderation Commands", menu.Placeholder)
	for _, opt := range menu.Options {
		assert.Equal(t, opt.Value == "ban", opt.Default, opt.Value)
	}
}

func TestRender_CommandList(t *testing.T) {
	c := testCatalog(t)
	screen := c.Render(Node{Kind: NodeCommandList, Category: "fun"}, owner)
	assert.Equal(t, "Category: **Fun Commands**\nSelect a command below to see its description.", screen.Description)
	assert.Len(t, screen.Controls[0][0].Options, 4)
}

func TestRender_TruncatesLongDescriptions(t *testing.T) {
	long := strings.Repeat("a", 120)
	c, err := ParseCatalog([]byte("title: Help\ncategories:\n  - key: k\n    name: K\n    commands:\n      - {name: x, description: " + long + "}\n"))
	require.NoError(t, err)

	opt := c.Render(Node{Kind: NodeCommandList, Category: "k"}, owner).Controls[0][0].Options[0]
	assert.Len(t, opt.Description, 100)
	assert.True(t, strings.HasSuffix(opt.Description, "..."))
}

func TestRenderClosed(t *testing.T) {
	c := testCatalog(t)
	screen := c.RenderClosed(Node{Kind: NodeCategoryList}, owner)
	assert.Empty(t, screen.Controls)
	assert.Equal(t, "Help menu closed", screen.Footer)
}

func TestParseControl(t *testing.T) {
	in, ok := ParseControl(IDCategory, "fun")
	require.True(t, ok)
	assert.Equal(t, Input{Kind: EventPickCategory, Value: "fun"}, in)

	_, ok = ParseControl("nav:unknown", "")
	assert.False(t, ok)
	assert.True(t, IsControl(IDBack))
	assert.False(t, IsControl("act:name=x"))
}
