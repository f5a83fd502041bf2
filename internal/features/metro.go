package features

// metroStations covers the Moscow, St Petersburg and other metro-city networks.
var metroStations = NewGazetteer(
	// Moscow
	"Авиамоторная", "Автозаводская", "Академическая", "Александровский сад", "Алексеевская",
	"Алтуфьево", "Аннино", "Арбатская", "Аэропорт", "Бабушкинская", "Багратионовская",
	"Баррикадная", "Бауманская", "Беговая", "Белорусская", "Беляево", "Бибирево",
	"Библиотека имени Ленина", "Боровицкая", "Ботанический сад", "Братиславская",
	"Бульвар Дмитрия Донского", "Бульвар Рокоссовского", "Бунинская аллея", "Варшавская",
	"ВДНХ", "Владыкино", "Водный стадион", "Войковская", "Волгоградский проспект",
	"Волжская", "Воробьёвы горы", "Выставочная", "Выхино", "Деловой центр", "Динамо",
	"Дмитровская", "Добрынинская", "Домодедовская", "Достоевская", "Дубровка",
	"Жулебино", "Зябликово", "Измайловская", "Калужская", "Кантемировская", "Каховская",
	"Каширская", "Киевская", "Китай-город", "Кожуховская", "Коломенская", "Комсомольская",
	"Коньково", "Красногвардейская", "Краснопресненская", "Красносельская", "Красные ворота",
	"Крестьянская застава", "Кропоткинская", "Крылатское", "Кузнецкий мост", "Кузьминки",
	"Кунцевская", "Курская", "Кутузовская", "Ленинский проспект", "Лермонтовский проспект",
	"Лубянка", "Люблино", "Марксистская", "Марьина роща", "Марьино", "Маяковская",
	"Медведково", "Международная", "Менделеевская", "Митино", "Молодёжная", "Нагатинская",
	"Нагорная", "Нахимовский проспект", "Новогиреево", "Новокузнецкая", "Новослободская",
	"Новые Черёмушки", "Октябрьская", "Октябрьское поле", "Орехово", "Отрадное",
	"Охотный ряд", "Павелецкая", "Парк культуры", "Парк Победы", "Партизанская",
	"Первомайская", "Перово", "Петровско-Разумовская", "Печатники", "Пионерская",
	"Планерная", "Площадь Ильича", "Площадь Революции", "Полежаевская", "Полянка",
	"Пражская", "Преображенская площадь", "Пролетарская", "Проспект Вернадского",
	"Проспект Мира", "Профсоюзная", "Пушкинская", "Речной вокзал", "Рижская",
	"Римская", "Рязанский проспект", "Савёловская", "Свиблово", "Севастопольская",
	"Семёновская", "Серпуховская", "Славянский бульвар", "Смоленская", "Сокол",
	"Сокольники", "Спортивная", "Сретенский бульвар", "Строгино", "Студенческая",
	"Сухаревская", "Сходненская", "Таганская", "Тверская", "Театральная", "Текстильщики",
	"Тёплый Стан", "Тимирязевская", "Третьяковская", "Трубная", "Тульская", "Тургеневская",
	"Тушинская", "Улица 1905 года", "Университет", "Филёвский парк", "Фили",
	"Фрунзенская", "Царицыно", "Цветной бульвар", "Черкизовская", "Чертановская",
	"Чеховская", "Чистые пруды", "Чкаловская", "Шаболовская", "Шоссе Энтузиастов",
	"Щёлковская", "Щукинская", "Электрозаводская", "Юго-Западная", "Южная", "Ясенево",
	"Румянцево", "Саларьево", "Тропарёво", "Технопарк", "Хорошёвская", "ЦСКА",
	"Петровский парк", "Савеловская", "Лефортово", "Нижегородская", "Окская",
	"Стахановская", "Косино", "Лухмановская", "Некрасовка", "Ховрино", "Беломорская",
	"Селигерская", "Верхние Лихоборы", "Окружная", "Фонвизинская", "Бутырская",
	"Марьина Роща", "Минская", "Ломоносовский проспект", "Раменки", "Мичуринский проспект",
	"Озёрная", "Говорово", "Солнцево", "Боровское шоссе", "Новопеределкино", "Рассказовка",
	"Москва-Сити", "Лужники", "Шелепиха", "Хорошёво", "Зорге", "Панфиловская",
	"Стрешнево", "Балтийская", "Коптево", "Лихоборы", "Ростокино", "Белокаменная",
	"Бульвар Адмирала Ушакова", "Улица Скобелевская", "Лесопарковая", "Битцевский парк",
	"Новокосино", "Пятницкое шоссе", "Волоколамская", "Мякинино", "Медведково",
	// St Petersburg
	"Адмиралтейская", "Академическая", "Балтийская", "Василеостровская", "Владимирская",
	"Выборгская", "Горьковская", "Гостиный двор", "Гражданский проспект", "Девяткино",
	"Достоевская", "Елизаровская", "Звёздная", "Звенигородская", "Кировский завод",
	"Комендантский проспект", "Крестовский остров", "Купчино", "Ладожская", "Ленинский проспект",
	"Лесная", "Лиговский проспект", "Ломоносовская", "Маяковская", "Московская",
	"Московские ворота", "Нарвская", "Невский проспект", "Новочеркасская", "Обводный канал",
	"Обухово", "Озерки", "Парк Победы", "Парнас", "Петроградская", "Пионерская",
	"Площадь Александра Невского", "Площадь Восстания", "Площадь Ленина", "Площадь Мужества",
	"Политехническая", "Приморская", "Пролетарская", "Проспект Большевиков",
	"Проспект Ветеранов", "Проспект Просвещения", "Пушкинская", "Рыбацкое", "Садовая",
	"Сенная площадь", "Спасская", "Спортивная", "Старая Деревня", "Технологический институт",
	"Удельная", "Улица Дыбенко", "Фрунзенская", "Чёрная речка", "Чернышевская",
	"Чкаловская", "Электросила", "Шушары", "Дунайская", "Проспект Славы", "Беговая",
	"Новокрестовская", "Волковская", "Бухарестская", "Международная",
	// Novosibirsk, Kazan, Yekaterinburg, Nizhny Novgorod, Samara
	"Площадь Маркса", "Студенческая", "Речной вокзал", "Октябрьская", "Площадь Гарина-Михайловского",
	"Сибирская", "Маршала Покрышкина", "Берёзовая роща", "Заельцовская", "Гагаринская",
	"Кремлёвская", "Площадь Тукая", "Суконная слобода", "Аметьево", "Горки", "Проспект Победы",
	"Дубравная", "Козья слобода", "Яшьлек", "Северный вокзал", "Авиастроительная",
	"Площадь 1905 года", "Геологическая", "Чкаловская", "Ботаническая", "Динамо",
	"Уралмаш", "Машиностроителей", "Уральская", "Горьковская", "Московская",
	"Бурнаковская", "Канавинская", "Стрелка", "Победа", "Безымянка", "Кировская", "Юнгородок",
)
