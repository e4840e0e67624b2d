// Package fixtures holds sample value shapes shared by the package tests.
package fixtures

import "github.com/ergomake/savefile/pkg/codec"

type Describer interface {
	Describe() string
}

type Item struct {
	Id    int
	Name  string
	Value int
}

func (i Item) Describe() string { return i.Name }

type Fruit struct {
	Item
	Weight int
}

type Weapon struct {
	Item
	Damage float64
	Tags   []string
}

type Vector3 struct {
	X, Y, Z float32
}

type Quaternion struct {
	X, Y, Z, W float32
}

type Transform struct {
	Position Vector3
	Rotation Quaternion
	Scale    Vector3
}

type Inventory struct {
	Owner string
	Items []Describer
}

type Player struct {
	Name      string
	Level     int
	Transform Transform
	Equipped  Describer
	Stash     map[string]Item
}

type Node struct {
	Name string
	Next *Node
}

// Registry returns a registry with every fixture type registered under its Go
// name.
func Registry() *codec.Registry {
	r := codec.NewRegistry()
	codec.MustRegister[Item](r, "Item")
	codec.MustRegister[Fruit](r, "Fruit")
	codec.MustRegister[Weapon](r, "Weapon")
	codec.MustRegister[Vector3](r, "Vector3")
	codec.MustRegister[Quaternion](r, "Quaternion")
	codec.MustRegister[Transform](r, "Transform")
	codec.MustRegister[Inventory](r, "Inventory")
	codec.MustRegister[Player](r, "Player")
	codec.MustRegister[Node](r, "Node")
	return r
}

func Banana() Fruit {
	return Fruit{Item: Item{Id: 420, Name: "Banana", Value: 69}, Weight: 50}
}

func Sword() Weapon {
	return Weapon{Item: Item{Id: 7, Name: "Sword", Value: 150}, Damage: 12.5, Tags: []string{"sharp", "steel"}}
}

func Backpack() Inventory {
	return Inventory{
		Owner: "Ada",
		Items: []Describer{Banana(), Sword(), Item{Id: 1, Name: "Rock", Value: 0}},
	}
}

func Hero() Player {
	return Player{
		Name:  "Ada",
		Level: 12,
		Transform: Transform{
			Position: Vector3{X: 1.5, Y: -2, Z: 30.25},
			Rotation: Quaternion{X: 0, Y: 0.7071, Z: 0, W: 0.7071},
			Scale:    Vector3{X: 1, Y: 1, Z: 1},
		},
		Equipped: Sword(),
		Stash: map[string]Item{
			"gem":  {Id: 99, Name: "Gem", Value: 1000},
			"coin": {Id: 100, Name: "Coin", Value: 1},
		},
	}
}
