package entities

// UnassignedID - идентификатор сущности, которая еще не сохранена.
const UnassignedID int64 = 0

// Identity rule, общий для всех сущностей: если у обеих сторон id назначен,
// сравниваются id; иначе сравниваются естественные ключи (Key).
// Сущности создаются до получения постоянного id и должны совпадать
// как до, так и после сохранения.

// IsAssigned сообщает, назначен ли постоянный id.
func IsAssigned(id int64) bool {
	return id != UnassignedID
}
