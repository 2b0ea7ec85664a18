package widget

// MonthLabels picks the month headings shown above columns 0, 2 and 4 of a
// six column week so that a week crossing a month boundary gets one heading
// per month without repeating it.
//
// Column 2 names the month only when columns 2 and 3 share it. Column 0
// names its month when columns 0 and 1 share one that differs from column 2,
// or whenever column 2 is blank. Column 4 names its month when it differs
// from column 2. Blank headings are empty strings.
func MonthLabels(months []string) [3]string {
	var labels [3]string
	if len(months) < 5 {
		if len(months) > 0 {
			labels[0] = months[0]
		}
		return labels
	}

	if months[2] == months[3] {
		labels[1] = months[2]
	}

	switch {
	case months[0] == months[1] && months[0] != months[2]:
		labels[0] = months[0]
	case labels[1] == "":
		labels[0] = months[0]
	}

	if months[4] != months[2] {
		labels[2] = months[4]
	}

	return labels
}
