package domain

// IndoorSelection is the indoor level currently focused on the map.
type IndoorSelection struct {
	LevelIndex int          `json:"levelIndex"`
	ZoneIndex  int          `json:"zoneIndex"`
	Region     IndoorRegion `json:"region"`
}

// IndoorRegion groups the zones of a building.
type IndoorRegion struct {
	Zones []IndoorZone `json:"zones"`
}

// IndoorZone is one zone of a region with its floors.
type IndoorZone struct {
	ZoneID            string        `json:"zoneId"`
	DefaultLevelIndex int           `json:"defaultLevelIndex"`
	Levels            []IndoorLevel `json:"levels"`
}

// IndoorLevel is a single floor.
type IndoorLevel struct {
	Name string `json:"name"`
	Hash int64  `json:"hash"`
}
