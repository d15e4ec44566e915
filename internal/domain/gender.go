package domain

// Gender — пол, которым помечается товар.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// GenderByIndex чередует male/female по позиции товара в каталоге (с нуля).
func GenderByIndex(i int) Gender {
	if i%2 == 0 {
		return Male
	}
	return Female
}
