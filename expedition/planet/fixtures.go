package planet

// Built-in survey targets. The three numbered planets are the official
// expedition fixtures; the remaining layouts stress specific exploration
// behaviors and double as test terrain.

// Fixtures returns the built-in planet configurations.
func Fixtures() []*Config {
	return []*Config{
		PlanetOne(),
		PlanetTwo(),
		PlanetThree(),
		BottleneckMaze(),
		OpenFieldFarEdges(),
		TightCorridors(),
	}
}

// PlanetOne is a small open plain with a central water pocket.
func PlanetOne() *Config {
	return &Config{
		Name:        "planet-1",
		Description: "Open plain with a central water pocket",
		Layout: []string{
			"H....",
			"..w..",
			".www.",
			"..w..",
			".....",
		},
	}
}

// PlanetTwo is a ridge world split by an obstruction wall with one pass.
func PlanetTwo() *Config {
	return &Config{
		Name:        "planet-2",
		Description: "Ridge world split by an obstruction wall with a single pass",
		Layout: []string{
			"...X....",
			"H..X....",
			"...X.w..",
			"........",
			"...X....",
			"...X..w.",
		},
	}
}

// PlanetThree is a cratered field with scattered obstructions.
func PlanetThree() *Config {
	return &Config{
		Name:        "planet-3",
		Description: "Cratered field with scattered obstructions",
		Layout: []string{
			".X...X....",
			"...X......",
			".X...XX.w.",
			"....X....X",
			".H........",
			"X...X..X..",
			"......X...",
		},
	}
}

// BottleneckMaze forces travel through narrow choke points.
func BottleneckMaze() *Config {
	return &Config{
		Name:        "bottleneck-maze",
		Description: "Choke points between open pockets",
		Layout: []string{
			"H...X....",
			".XXX.X.X.",
			".....X...",
			"X.X.X.XXX",
			".........",
		},
	}
}

// OpenFieldFarEdges has distant corners near the battery horizon.
func OpenFieldFarEdges() *Config {
	return &Config{
		Name:        "open-field",
		Description: "Open field with far edges near the battery horizon",
		Layout: []string{
			"H........",
			".........",
			"..XXX....",
			".........",
			".......X.",
			".....w..X",
			"....X....",
		},
	}
}

// TightCorridors is a serpentine of one-cell-wide passages.
func TightCorridors() *Config {
	return &Config{
		Name:        "tight-corridors",
		Description: "Serpentine single-width corridors",
		Layout: []string{
			"H.X.X.X.",
			".X.X.X.X",
			".X.X.X.X",
			".X.X.X.X",
			".......X",
		},
	}
}
