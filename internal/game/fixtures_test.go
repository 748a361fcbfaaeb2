package game

// Shared weapon and unit fixtures for the package tests. Numbers are chosen
// so that hit-chance arithmetic in the tests stays easy to verify by hand.

func testRifle() *Weapon {
	return &Weapon{
		Name:           "test rifle",
		Class:          WeaponRanged,
		Damage:         10,
		Range:          8,
		Accuracy:       70,
		APCost:         1,
		FalloffPerTile: 2,
	}
}

func testSniper() *Weapon {
	return &Weapon{
		Name:           "test sniper",
		Class:          WeaponRanged,
		Damage:         15,
		Range:          12,
		Accuracy:       85,
		APCost:         2,
		FalloffPerTile: 1,
	}
}

func testSword() *Weapon {
	return &Weapon{
		Name:     "test sword",
		Class:    WeaponMelee,
		Damage:   12,
		Range:    1,
		Accuracy: 80,
		APCost:   1,
	}
}

func testScatter() *Weapon {
	return &Weapon{
		Name:           "test scattergun",
		Class:          WeaponSpread,
		Damage:         6,
		Range:          4,
		Accuracy:       60,
		APCost:         1,
		FalloffPerTile: 5,
		ConeWidth:      1,
	}
}

func testGrenade() *Weapon {
	return &Weapon{
		Name:        "test grenade",
		Class:       WeaponAOE,
		Damage:      8,
		Range:       6,
		APCost:      1,
		BlastRadius: 1,
	}
}

// testTrooper is the baseline combatant: 30 health, 4 move, +10 accuracy,
// 2 AP per turn.
func testTrooper(name string, w *Weapon) UnitSpec {
	return UnitSpec{
		Name:      name,
		MaxHealth: 30,
		Move:      4,
		Accuracy:  10,
		MaxAP:     2,
		Weapon:    w,
	}
}
