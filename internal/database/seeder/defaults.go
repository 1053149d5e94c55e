package seeder

func Defaults() []Seeder {
	return []Seeder{
		CompaniesSeeder{},
		ListingsSeeder{},
	}
}
