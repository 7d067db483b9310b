package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageData_PlainJSON(t *testing.T) {
	text := `{"company_name": "Chase Bank", "product_category": "mobile banking app", "descriptive_tags": ["login screen", "blue color scheme"]}`

	rec := ImageData(text)

	assert.Equal(t, "Chase Bank", rec.CompanyName)
	assert.Equal(t, "mobile banking app", rec.ProductCategory)
	assert.Equal(t, []string{"login screen", "blue color scheme"}, rec.DescriptiveTags)
}

func TestImageData_FencedWithCommentary(t *testing.T) {
	text := "Here is the result:\n```json\n{\"company_name\": \"Acme\", \"category\": \"crm\"}\n```\nHope that helps!"

	rec := ImageData(text)

	assert.Equal(t, "Acme", rec.CompanyName)
	assert.Equal(t, "crm", rec.ProductCategory)
	assert.Empty(t, rec.DescriptiveTags)
}

func TestImageData_UnlabeledFence(t *testing.T) {
	text := "```\n{\"brand\": \"Stripe\", \"app_type\": \"payments dashboard\"}\n```"

	rec := ImageData(text)

	assert.Equal(t, "Stripe", rec.CompanyName)
	assert.Equal(t, "payments dashboard", rec.ProductCategory)
}

func TestImageData_AliasPriority(t *testing.T) {
	// company_name outranks brand; product_category outranks app_type
	text := `{"company_name": "Primary", "brand": "Secondary", "product_category": "crm", "app_type": "other"}`

	rec := ImageData(text)

	assert.Equal(t, "Primary", rec.CompanyName)
	assert.Equal(t, "crm", rec.ProductCategory)
}

func TestImageData_TagsAsCSVString(t *testing.T) {
	text := `{"tags": "login screen, dark mode , , navigation bar"}`

	rec := ImageData(text)

	assert.Equal(t, []string{"login screen", "dark mode", "navigation bar"}, rec.DescriptiveTags)
}

func TestImageData_TagsWrongType(t *testing.T) {
	text := `{"descriptive_tags": 42, "company_name": "Acme"}`

	rec := ImageData(text)

	assert.Equal(t, "Acme", rec.CompanyName)
	assert.Empty(t, rec.DescriptiveTags)
}

func TestImageData_TotalFailure(t *testing.T) {
	for _, text := range []string{"", "no structure here at all", "{{{{", "```\nnot json\n```"} {
		rec := ImageData(text)
		assert.True(t, rec.Empty(), "input %q should yield empty record", text)
	}
}

func TestParse_SecondBlockWhenFirstMalformed(t *testing.T) {
	// First {...} is unbalanced because a quoted string hides a brace and the
	// block never closes properly as JSON; the scanner must keep going and
	// return the second, valid block.
	text := `prefix {"broken": "a " quote} mid {"company_name": "Valid Co"} suffix`

	obj := Parse(text)

	require.NotEmpty(t, obj)
	assert.Equal(t, "Valid Co", obj["company_name"])
}

func TestParse_BracesInsideStrings(t *testing.T) {
	text := `{"note": "curly {braces} and \"escapes\" inside", "company": "Acme"}`

	obj := Parse(text)

	require.NotEmpty(t, obj)
	assert.Equal(t, "Acme", obj["company"])
}

func TestParse_NestedObject(t *testing.T) {
	text := `Sure! {"outer": {"inner": 1}, "category": "crm"} done.`

	obj := Parse(text)

	require.NotEmpty(t, obj)
	assert.Equal(t, "crm", obj["category"])
}

func TestProjectTags_List(t *testing.T) {
	text := "```json\n{\"project_tags\": [\"mobile first\", \"dark mode\"]}\n```"

	tags := ProjectTags(text)

	assert.Equal(t, []string{"mobile first", "dark mode"}, tags)
}

func TestProjectTags_CSVFallbackAlias(t *testing.T) {
	text := `{"common_tags": "card based layout, onboarding flow"}`

	tags := ProjectTags(text)

	assert.Equal(t, []string{"card based layout", "onboarding flow"}, tags)
}

func TestProjectTags_Empty(t *testing.T) {
	assert.Nil(t, ProjectTags("the model refused to answer"))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitTags(" a , b ,"))
	assert.Nil(t, SplitTags("  ,  "))
}
