package maze

import "sort"

// Built-in mazes, keyed by name. All of them are solvable with the
// wall-following sample programs.
var builtins = map[string]*Grid{
	"classic": mustParse(`##############
#S....#......#
###.#.#.####.#
#...#.#....#.#
#.###.####.#.#
#...#......#.#
#.#.########.#
#.#........#.#
#.######.#.#G#
##############`),
	"forks": mustParse(`##############
#S.....#.....#
#.###..#.###.#
#...#..#...#.#
###.#..###.#.#
#...#......#.#
#.#.########.#
#.#........#.#
#.######.#.#G#
##############`),
	"corridor": mustParse(`#######
#S...G#
#######`),
}

// Builtin returns the named built-in maze, or nil if there is none.
func Builtin(name string) *Grid {
	return builtins[name]
}

// BuiltinNames lists the built-in maze names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
