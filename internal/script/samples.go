package script

import "sort"

// Samples are ready-to-run example programs, keyed by name.
var Samples = map[string]string{
	"right-hand": `while not at_goal() {
    if path_right() {
        turn_right();
        move();
    } else if path_ahead() {
        move();
    } else {
        turn_left();
    }
}
`,
	"left-hand": `while not at_goal() {
    if path_left() {
        turn_left();
        move();
    } else if path_ahead() {
        move();
    } else {
        turn_right();
    }
}
`,
	"dead-end": `while not at_goal() {
    if path_ahead() {
        move();
    } else if path_right() {
        turn_right();
    } else if path_left() {
        turn_left();
    } else {
        turn_left();
        turn_left();
    }
}
`,
}

// SampleNames lists the sample program names in sorted order.
func SampleNames() []string {
	names := make([]string, 0, len(Samples))
	for name := range Samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
