package main

import "github.com/civica-app/civica-backend/internal/domain/entity"

type seedQuestion struct {
	Text        string
	Options     [4]string
	Answer      string
	Explanation string
}

type seedLevel struct {
	Title       string
	Description string
	Difficulty  entity.Difficulty
	Questions   []seedQuestion
}

type seedTheme struct {
	Title       string
	Description string
	Icon        string
	Color       string
	Levels      []seedLevel
}

// constitution is the starter quiz built from the Constitution of Cameroon.
var constitution = []seedTheme{
	{
		Title:       "Principes Fondamentaux",
		Description: "Les principes de base de la République du Cameroun",
		Icon:        "⚖️",
		Color:       "#3498DB",
		Levels: []seedLevel{
			{
				Title:       "Niveau Débutant",
				Description: "Questions de base sur les principes fondamentaux",
				Difficulty:  entity.DifficultyEasy,
				Questions: []seedQuestion{
					{
						Text:        "Quelle est la dénomination officielle du Cameroun selon l'Article 1er ?",
						Options:     [4]string{"République Unie du Cameroun", "République du Cameroun", "État du Cameroun", "Nation du Cameroun"},
						Answer:      "B",
						Explanation: "Selon l'Article 1er, la République Unie du Cameroun prend la dénomination de République du Cameroun.",
					},
					{
						Text:        "Quelles sont les langues officielles du Cameroun ?",
						Options:     [4]string{"Français et Anglais", "Français seulement", "Anglais seulement", "Français, Anglais et langues nationales"},
						Answer:      "A",
						Explanation: "L'Article 1er stipule que la République du Cameroun adopte l'anglais et le français comme langues officielles d'égale valeur.",
					},
					{
						Text:        "Quelle est la devise de la République du Cameroun ?",
						Options:     [4]string{"Travail-Paix-Patrie", "Paix-Travail-Patrie", "Patrie-Travail-Paix", "Unité-Travail-Progrès"},
						Answer:      "B",
						Explanation: "Selon l'Article 1er, la devise de la République du Cameroun est 'Paix-Travail-Patrie'.",
					},
					{
						Text:        "Quelles sont les couleurs du drapeau camerounais ?",
						Options:     [4]string{"Vert, Rouge, Jaune", "Bleu, Blanc, Rouge", "Rouge, Jaune, Vert", "Jaune, Rouge, Vert"},
						Answer:      "A",
						Explanation: "L'Article 1er précise que le drapeau est Vert, Rouge, Jaune, à trois bandes verticales d'égales dimensions.",
					},
					{
						Text:        "Où se trouve le siège des institutions camerounaises ?",
						Options:     [4]string{"Douala", "Yaoundé", "Bafoussam", "Garoua"},
						Answer:      "B",
						Explanation: "L'Article 1er stipule que le siège des institutions est à Yaoundé.",
					},
				},
			},
			{
				Title:       "Niveau Intermédiaire",
				Description: "Questions avancées sur les principes fondamentaux",
				Difficulty:  entity.DifficultyMedium,
				Questions: []seedQuestion{
					{
						Text:        "Selon l'Article 2, à qui appartient la souveraineté nationale ?",
						Options:     [4]string{"Au Président", "Au Parlement", "Au peuple camerounais", "Au Gouvernement"},
						Answer:      "C",
						Explanation: "L'Article 2 stipule que la souveraineté nationale appartient au peuple camerounais.",
					},
					{
						Text:        "Quel est l'âge minimum pour participer au vote ?",
						Options:     [4]string{"18 ans", "20 ans", "21 ans", "25 ans"},
						Answer:      "B",
						Explanation: "Selon l'Article 2, participent au vote tous les citoyens âgés d'au moins vingt (20) ans.",
					},
				},
			},
		},
	},
	{
		Title:       "Pouvoir Exécutif",
		Description: "Le Président de la République et le Gouvernement",
		Icon:        "🏛️",
		Color:       "#E74C3C",
		Levels: []seedLevel{
			{
				Title:       "Niveau Débutant",
				Description: "Questions de base sur le pouvoir exécutif",
				Difficulty:  entity.DifficultyEasy,
				Questions: []seedQuestion{
					{
						Text:        "Qui est le Chef de l'État selon la Constitution ?",
						Options:     [4]string{"Le Premier Ministre", "Le Président de la République", "Le Président de l'Assemblée", "Le Ministre de la Justice"},
						Answer:      "B",
						Explanation: "L'Article 5 stipule que le Président de la République est le Chef de l'État.",
					},
					{
						Text:        "Pour combien d'années le Président est-il élu ?",
						Options:     [4]string{"5 ans", "6 ans", "7 ans", "8 ans"},
						Answer:      "C",
						Explanation: "Selon l'Article 6, le Président de la République est élu pour un mandat de sept (7) ans.",
					},
					{
						Text:        "Quel est l'âge minimum pour être candidat à la Présidence ?",
						Options:     [4]string{"30 ans", "35 ans", "40 ans", "45 ans"},
						Answer:      "B",
						Explanation: "L'Article 6 précise que les candidats doivent avoir trente-cinq (35) ans révolus à la date de l'élection.",
					},
				},
			},
		},
	},
	{
		Title:       "Pouvoir Législatif",
		Description: "Le Parlement : Assemblée Nationale et Sénat",
		Icon:        "🏛️",
		Color:       "#27AE60",
		Levels: []seedLevel{
			{
				Title:       "Niveau Débutant",
				Description: "Questions de base sur le pouvoir législatif",
				Difficulty:  entity.DifficultyEasy,
				Questions: []seedQuestion{
					{
						Text:        "Combien de chambres compose le Parlement camerounais ?",
						Options:     [4]string{"1", "2", "3", "4"},
						Answer:      "B",
						Explanation: "L'Article 14 précise que le Parlement comprend deux (2) chambres : l'Assemblée Nationale et le Sénat.",
					},
					{
						Text:        "Combien de députés compose l'Assemblée Nationale ?",
						Options:     [4]string{"150", "180", "200", "250"},
						Answer:      "B",
						Explanation: "L'Article 15 stipule que l'Assemblée Nationale est composée de cent quatre-vingt (180) députés.",
					},
				},
			},
		},
	},
	{
		Title:       "Pouvoir Judiciaire",
		Description: "L'organisation de la justice au Cameroun",
		Icon:        "⚖️",
		Color:       "#9B59B6",
		Levels: []seedLevel{
			{
				Title:       "Niveau Débutant",
				Description: "Questions de base sur le pouvoir judiciaire",
				Difficulty:  entity.DifficultyEasy,
				Questions: []seedQuestion{
					{
						Text:        "Au nom de qui la justice est-elle rendue au Cameroun ?",
						Options:     [4]string{"Du Président", "Du peuple camerounais", "De l'État", "Du Gouvernement"},
						Answer:      "B",
						Explanation: "L'Article 37 stipule que la justice est rendue au nom du peuple camerounais.",
					},
				},
			},
		},
	},
	{
		Title:       "Collectivités Territoriales",
		Description: "Les régions et communes du Cameroun",
		Icon:        "🗺️",
		Color:       "#F39C12",
		Levels: []seedLevel{
			{
				Title:       "Niveau Débutant",
				Description: "Questions de base sur les collectivités territoriales",
				Difficulty:  entity.DifficultyEasy,
				Questions: []seedQuestion{
					{
						Text:        "Combien de régions compte le Cameroun selon la Constitution ?",
						Options:     [4]string{"8", "10", "12", "15"},
						Answer:      "B",
						Explanation: "L'Article 61 énumère 10 régions : Adamaoua, Centre, Est, Extrême Nord, Littoral, Nord, Nord-Ouest, Ouest, Sud, Sud-Ouest.",
					},
				},
			},
		},
	},
}
