package models

// Option lists offered by the forms. The store accepts any string.
var (
	ClassOptions = []string{
		"Barbarian", "Bard", "Cleric", "Druid", "Fighter", "Monk",
		"Paladin", "Ranger", "Rogue", "Sorcerer", "Warlock", "Wizard",
	}

	RaceOptions = []string{
		"Human", "Elf", "Drow", "Dwarf", "Halfling", "Gnome", "Half-Elf", "Half-Orc",
		"Tiefling", "Dragonborn", "Goliath", "Aasimar", "Genasi", "Tabaxi", "Triton",
		"Tortle", "Kenku", "Lizardfolk", "Yuan-ti", "Aarakocra", "Firbolg", "Gith",
		"Bugbear", "Goblin", "Hobgoblin", "Orc", "Kobold", "Centaur", "Loxodon",
		"Minotaur", "Vedalken", "Simic Hybrid",
	}

	BackgroundOptions = []string{
		"Acolyte", "Guild Artisan", "Entertainer", "Charlatan", "Criminal", "Hermit",
		"Folk Hero", "Sailor", "Noble", "Sage", "Soldier", "Outlander", "Urchin",
	}

	AlignmentOptions = []string{
		"Lawful Good", "Neutral Good", "Chaotic Good",
		"Lawful Neutral", "Neutral", "Chaotic Neutral",
		"Lawful Evil", "Neutral Evil", "Chaotic Evil",
	}

	SavingThrowOptions = []string{
		"Strength", "Dexterity", "Constitution", "Intelligence", "Wisdom", "Charisma",
	}
)
