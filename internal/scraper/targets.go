package scraper

import "fmt"

// The portal is an ant-design RTL app with generated markup. Every target
// carries the absolute path seen in production first, then looser
// fallbacks.

const datepickerXPath = "//div[@class='ant-row ant-row-start ant-row-middle ant-row-rtl datepicker-inputs']"

// positions inside the datepicker
const (
	boundFrom = 1
	boundTo   = 2

	partDay   = 1
	partMonth = 2
	partYear  = 3
)

func dateField(name string, bound, part int) Target {
	return Target{
		Name: name,
		Strategies: []Strategy{
			Strategy(fmt.Sprintf("xpath=%s/div[%d]/div[2]/div[%d]/div[1]/div[1]/div[1]/div[1]/div[1]/span[1]/input[1]", datepickerXPath, bound, part)),
			Strategy(fmt.Sprintf("xpath=//div[contains(@class,'datepicker-inputs')]/div[%d]/div[2]/div[%d]//input", bound, part)),
			Strategy(fmt.Sprintf(".datepicker-inputs > div:nth-child(%d) > div:nth-child(2) > div:nth-child(%d) input", bound, part)),
		},
	}
}

var (
	FromYearField  = dateField("from-year", boundFrom, partYear)
	FromMonthField = dateField("from-month", boundFrom, partMonth)
	FromDayField   = dateField("from-day", boundFrom, partDay)
	ToYearField    = dateField("to-year", boundTo, partYear)
	ToMonthField   = dateField("to-month", boundTo, partMonth)
	ToDayField     = dateField("to-day", boundTo, partDay)

	// SearchButton is the "بحث" (search) button under the form
	SearchButton = Target{
		Name: "search-button",
		Strategies: []Strategy{
			"xpath=//button[@class='ant-btn ant-btn-primary ant-btn-rtl ant-btn-primary ant-btn-primary--success']/span[1]",
			"xpath=//button[contains(@class, 'ant-btn-primary')]//span[contains(text(), 'بحث')]/..",
			"xpath=//button[contains(@class, 'ant-btn')]//span[contains(text(), 'بحث')]/..",
			`button:has-text("بحث")`,
		},
	}
)

// Result table selectors
const (
	ResultRowSelector  = "tbody tr"
	ResultCellSelector = "td"
)
