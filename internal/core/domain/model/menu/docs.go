// Package menu holds what customers can order: restaurants and their meals,
// both partitioned by delivery area.
package menu
